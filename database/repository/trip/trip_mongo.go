package tripRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripmarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTripRepo) Create(ctx context.Context, trip *models.Trip) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if trip.Promotions == nil {
		trip.Promotions = []models.Promotion{}
	}
	if _, err := r.coll.InsertOne(ctx, trip); err != nil {
		return fmt.Errorf("error creating trip: %w", err)
	}
	return nil
}

func (r *mongoTripRepo) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var trip models.Trip
	if err := r.coll.FindOne(ctx, bson.M{"id": tripID}).Decode(&trip); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NotFoundError{Resource: "trip", ID: tripID}
		}
		return nil, fmt.Errorf("error fetching trip %s: %w", tripID, err)
	}
	return &trip, nil
}

func (r *mongoTripRepo) ListByVendor(ctx context.Context, vendorID string) ([]models.Trip, error) {
	return r.list(ctx, bson.M{"vendorId": vendorID})
}

func (r *mongoTripRepo) ListPromoted(ctx context.Context) ([]models.Trip, error) {
	return r.list(ctx, bson.M{"isPromoted": true})
}

func (r *mongoTripRepo) list(ctx context.Context, filter bson.M) ([]models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("error decoding trips: %w", err)
	}
	return trips, nil
}

func (r *mongoTripRepo) UpdateStatus(ctx context.Context, tripID string, from, to models.TripStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": tripID, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, tripID)
	}
	return nil
}

// UpdateSeats writes availableSeats only if nobody else wrote since expectedVersion.
func (r *mongoTripRepo) UpdateSeats(ctx context.Context, tripID string, expectedVersion, availableSeats int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         tripID,
		"version":    expectedVersion,
		"totalSeats": bson.M{"$gte": availableSeats},
	}
	update := bson.M{
		"$set": bson.M{"availableSeats": availableSeats, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update trip seats: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, tripID)
	}
	return nil
}

func (r *mongoTripRepo) ReplacePromotions(ctx context.Context, tripID string, expectedVersion int, promotions []models.Promotion, isPromoted bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": tripID, "promotionsVersion": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"promotions": promotions,
			"isPromoted": isPromoted,
			"updatedAt":  time.Now(),
		},
		"$inc": bson.M{"promotionsVersion": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update trip promotions: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, tripID)
	}
	return nil
}

// missOrConflict tells a missing trip apart from a stale version.
func (r *mongoTripRepo) missOrConflict(ctx context.Context, tripID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": tripID})
	if err != nil {
		return fmt.Errorf("error checking trip %s: %w", tripID, err)
	}
	if n == 0 {
		return models.NotFoundError{Resource: "trip", ID: tripID}
	}
	return models.ConflictError{Resource: "trip", ID: tripID}
}
