package booking

import (
	"context"
	"time"

	bookingRepo "tripmarket/database/repository/booking"
	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/models"
	"tripmarket/services/coupon"
	"tripmarket/services/inventory"
	"tripmarket/services/pricing"

	"go.uber.org/zap"
)

// BookingService accepts bookings and drives their state machine. actorID
// is the caller's token subject; it must be the booking's user or vendor.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	// CancelBooking is idempotent; seats come back exactly once.
	CancelBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, vendorID string) (*models.Booking, error)
}

type DefaultBookingService struct {
	Trips     tripRepo.TripRepository
	Bookings  bookingRepo.BookingRepository
	Inventory inventory.InventoryLedger
	Coupons   coupon.CouponEvaluator
	Pricing   *pricing.Calculator
	Logger    *zap.Logger
	Attempts  uint
	// CompensationTimeout bounds the seat release that runs after a failed
	// or abandoned booking.
	CompensationTimeout time.Duration
	Now                 func() time.Time
}

func NewBookingService(
	trips tripRepo.TripRepository,
	bookings bookingRepo.BookingRepository,
	ledger inventory.InventoryLedger,
	coupons coupon.CouponEvaluator,
	calc *pricing.Calculator,
	attempts uint,
	logger *zap.Logger,
) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Trips:               trips,
		Bookings:            bookings,
		Inventory:           ledger,
		Coupons:             coupons,
		Pricing:             calc,
		Logger:              logger,
		Attempts:            attempts,
		CompensationTimeout: 10 * time.Second,
		Now:                 time.Now,
	}
}
