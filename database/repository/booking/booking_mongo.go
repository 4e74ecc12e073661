package bookingRepo

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

// Create inserts a new booking document.
func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NotFoundError{Resource: "booking", ID: bookingID}
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) ListByTrip(ctx context.Context, tripID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"tripId": tripID})
}

func (r *mongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, payment models.PaymentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"bookingStatus": to, "updatedAt": time.Now()}
	if payment != "" {
		set["paymentStatus"] = payment
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID, "bookingStatus": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, bookingID)
	}
	return nil
}

func (r *mongoBookingRepo) ClaimSeatRelease(ctx context.Context, bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": bookingID, "seatsReleased": false},
		bson.M{"$set": bson.M{"seatsReleased": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("error claiming seat release for booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoBookingRepo) ResetSeatRelease(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"seatsReleased": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error resetting seat release for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoBookingRepo) missOrConflict(ctx context.Context, bookingID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error checking booking %s: %w", bookingID, err)
	}
	if n == 0 {
		return models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	return models.ConflictError{Resource: "booking", ID: bookingID}
}
