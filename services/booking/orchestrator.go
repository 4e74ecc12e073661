package booking

import (
	"context"
	"fmt"
	"time"

	"tripmarket/metrics"
	"tripmarket/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking reserves seats, prices the party and stores a CONFIRMED
// booking. Once seats are reserved, any failure before the booking is stored
// hands them back, including when ctx is cancelled.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req models.CreateBookingRequest) (booking *models.Booking, err error) {
	started := time.Now()
	defer func() {
		metrics.BookingDuration.Observe(time.Since(started).Seconds())
		if err != nil {
			metrics.BookingsRejected.WithLabelValues(rejectionReason(err)).Inc()
		}
	}()

	if err := validateRequest(userID, req); err != nil {
		return nil, err
	}

	trip, err := s.Trips.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripPublished {
		return nil, models.NotFoundError{Resource: "trip", ID: req.TripID}
	}
	if _, ok := trip.PriceFor(req.SharingType); !ok {
		return nil, models.ValidationError{Field: "sharingType", Msg: "must be one of single, double, triple, quad"}
	}

	guestCount := req.Guests.Count()
	reservation, err := s.Inventory.ReserveSeats(ctx, trip.ID, guestCount)
	if err != nil {
		return nil, err
	}

	stored, redeemed := false, false
	defer func() {
		if stored {
			return
		}
		if redeemed {
			s.withDetached(ctx, func(dctx context.Context) {
				_ = s.Coupons.Unredeem(dctx, req.CouponCode, userID)
			})
		}
		s.releaseReservation(ctx, reservation, err)
	}()

	var discount *models.Discount
	if req.CouponCode != "" {
		d, err := s.Coupons.Evaluate(req.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := s.Coupons.Redeem(ctx, req.CouponCode, userID); err != nil {
			return nil, err
		}
		redeemed = true
		discount = &d
	}

	price, err := s.Pricing.Quote(trip, req.Guests, req.SharingType, discount)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	booking = &models.Booking{
		ID:            uuid.New().String(),
		TripID:        trip.ID,
		UserID:        userID,
		VendorID:      trip.VendorID,
		ReservationID: reservation.ID,
		Guests:        req.Guests,
		SharingType:   req.SharingType,
		TravelDate:    req.TravelDate,
		Pricing:       price,
		TotalAmount:   price.Total,
		PaymentStatus: models.PaymentCompleted,
		BookingStatus: models.BookingConfirmed,
		Contact:       req.Contact,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if discount != nil {
		booking.CouponCode = discount.Code
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store booking: %w", err)
	}
	stored = true

	metrics.BookingsCreated.Inc()
	s.Logger.Info("Booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("tripId", trip.ID),
		zap.String("userId", userID),
		zap.Int("guests", guestCount),
		zap.Int64("totalAmount", booking.TotalAmount),
	)
	return booking, nil
}

// withDetached runs fn on a context that survives the caller's cancellation
// but is still bounded.
func (s *DefaultBookingService) withDetached(ctx context.Context, fn func(context.Context)) {
	timeout := s.CompensationTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	fn(dctx)
}

func (s *DefaultBookingService) releaseReservation(ctx context.Context, r *models.Reservation, cause error) {
	s.withDetached(ctx, func(dctx context.Context) {
		if err := s.Inventory.ReleaseSeats(dctx, r.TripID, r.Seats); err != nil {
			s.Logger.Error("Failed to release reservation after booking failure",
				zap.String("reservationId", r.ID),
				zap.String("tripId", r.TripID),
				zap.Int("seats", r.Seats),
				zap.NamedError("cause", cause),
				zap.Error(err),
			)
			return
		}
		s.Logger.Warn("Reservation released after booking failure",
			zap.String("reservationId", r.ID),
			zap.String("tripId", r.TripID),
			zap.Int("seats", r.Seats),
			zap.NamedError("cause", cause),
		)
	})
}
