package accountRepo

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

// Vendor accounts embed their transaction log so a balance change and its
// entry land in one document write.
type mongoAccountRepo struct {
	coll *mongo.Collection
}

func NewMongoAccountRepo(db *mongo.Database) AccountRepository {
	return &mongoAccountRepo{coll: db.Collection("vendor_accounts")}
}

func (r *mongoAccountRepo) GetAccount(ctx context.Context, vendorID string) (*models.VendorAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"transactions": 0})
	var acct models.VendorAccount
	if err := r.coll.FindOne(ctx, bson.M{"vendorId": vendorID}, opts).Decode(&acct); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
		return nil, fmt.Errorf("error fetching account %s: %w", vendorID, err)
	}
	return &acct, nil
}

func (r *mongoAccountRepo) Append(ctx context.Context, vendorID string, expectedVersion int, tx models.CreditTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if expectedVersion == 0 {
		if tx.Amount < 0 {
			return models.InsufficientCreditsError{VendorID: vendorID, Required: -tx.Amount}
		}
		acct := models.VendorAccount{
			VendorID:     vendorID,
			Credits:      tx.Amount,
			Transactions: []models.CreditTransaction{tx},
			Version:      1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := r.coll.InsertOne(ctx, acct); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.ConflictError{Resource: "vendor account", ID: vendorID}
			}
			return fmt.Errorf("error creating account %s: %w", vendorID, err)
		}
		return nil
	}

	filter := bson.M{"vendorId": vendorID, "version": expectedVersion}
	if tx.Amount < 0 {
		filter["credits"] = bson.M{"$gte": -tx.Amount}
	}
	update := bson.M{
		"$push": bson.M{"transactions": tx},
		"$inc":  bson.M{"credits": tx.Amount, "version": 1},
		"$set":  bson.M{"updatedAt": now},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error appending to account %s: %w", vendorID, err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"vendorId": vendorID})
		if err != nil {
			return fmt.Errorf("error checking account %s: %w", vendorID, err)
		}
		if n == 0 {
			return models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
		return models.ConflictError{Resource: "vendor account", ID: vendorID}
	}
	return nil
}

func (r *mongoAccountRepo) ListTransactions(ctx context.Context, vendorID string) ([]models.CreditTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"transactions": 1})
	var acct models.VendorAccount
	if err := r.coll.FindOne(ctx, bson.M{"vendorId": vendorID}, opts).Decode(&acct); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
		return nil, fmt.Errorf("error fetching transactions for %s: %w", vendorID, err)
	}
	return acct.Transactions, nil
}

// EnsureIndexes makes vendorId unique so concurrent first purchases collide
// instead of creating two accounts.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("vendor_accounts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "vendorId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_vendor"),
	})
	if err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}
