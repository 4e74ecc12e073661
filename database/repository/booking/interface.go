package bookingRepo

import (
	"context"

	"tripmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists bookings. Status writes are conditional on the
// current status so that concurrent transitions resolve to a single winner.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByTrip(ctx context.Context, tripID string) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// TransitionStatus moves a booking from -> to. An empty payment leaves the
	// payment status unchanged.
	TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, payment models.PaymentStatus) error
	// ClaimSeatRelease flips seatsReleased false -> true and reports whether this
	// caller won the claim.
	ClaimSeatRelease(ctx context.Context, bookingID string) (bool, error)
	// ResetSeatRelease undoes a claim whose release failed.
	ResetSeatRelease(ctx context.Context, bookingID string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
