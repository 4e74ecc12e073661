package tripRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the trips collection relies on.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("vendor_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "isPromoted", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("promoted_status_idx"),
		},
	}

	if _, err := db.Collection("trips").Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create trip indexes: %w", err)
	}
	return nil
}
