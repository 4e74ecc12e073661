// File: database/repository/trip/interface.go
package tripRepo

import (
	"context"

	"tripmarket/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// TripRepository persists trips. Seat and promotion writes are compare-and-swap
// on their version counters and fail with models.ConflictError on mismatch.
type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, tripID string) (*models.Trip, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Trip, error)
	// ListPromoted returns trips whose stored IsPromoted flag is set.
	ListPromoted(ctx context.Context) ([]models.Trip, error)
	UpdateStatus(ctx context.Context, tripID string, from, to models.TripStatus) error
	UpdateSeats(ctx context.Context, tripID string, expectedVersion, availableSeats int) error
	ReplacePromotions(ctx context.Context, tripID string, expectedVersion int, promotions []models.Promotion, isPromoted bool) error
}

type mongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo constructs a MongoDB TripRepository.
func NewMongoTripRepo(db *mongo.Database) TripRepository {
	return &mongoTripRepo{
		coll: db.Collection("trips"),
	}
}
