// Command seed fills a development database with published trips and vendor
// credit balances, then prints bearer tokens for trying the API.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tripmarket/config"
	"tripmarket/database"
	accountRepo "tripmarket/database/repository/account"
	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/models"
	"tripmarket/services/credit"
	"tripmarket/services/trip"
	"tripmarket/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type seedTrip struct {
	vendorID    string
	title       string
	destination string
	basePrice   int64
	sharing     models.SharingPrices
	seats       int
	startInDays int
	days        int
}

var catalog = []seedTrip{
	{"vendor-1", "Spiti Valley Circuit", "Spiti", 24999, models.SharingPrices{Single: 29999, Double: 24999, Triple: 22999, Quad: 20999}, 20, 14, 8},
	{"vendor-1", "Goa Long Weekend", "Goa", 9999, models.SharingPrices{Double: 9999, Quad: 8499}, 30, 7, 3},
	{"vendor-2", "Rishikesh Rafting", "Rishikesh", 6999, models.SharingPrices{}, 16, 10, 2},
	{"vendor-2", "Meghalaya Living Roots", "Shillong", 18999, models.SharingPrices{Double: 18999, Triple: 17499}, 12, 21, 6},
}

var vendorCredits = map[string]int64{
	"vendor-1": 1000,
	"vendor-2": 300,
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	db, err := database.InitDB(logger)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer database.CloseDB(ctx)

	// Clear existing trips and bookings.
	for _, name := range []string{"trips", "bookings"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}
	if err := tripRepo.EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to create trip indexes: %v", err)
	}

	trips := trip.NewTripService(tripRepo.NewMongoTripRepo(db), 3, logger)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, s := range catalog {
		start := today.AddDate(0, 0, s.startInDays)
		created, err := trips.CreateTrip(ctx, s.vendorID, models.CreateTripRequest{
			Title:         s.title,
			Destination:   s.destination,
			BasePrice:     s.basePrice,
			SharingPrices: s.sharing,
			TotalSeats:    s.seats,
			StartDate:     start,
			EndDate:       start.AddDate(0, 0, s.days),
		})
		if err != nil {
			log.Fatalf("Failed to create trip %q: %v", s.title, err)
		}
		if _, err := trips.UpdateStatus(ctx, s.vendorID, created.ID, models.TripPublished); err != nil {
			log.Fatalf("Failed to publish trip %q: %v", s.title, err)
		}
		logger.Info("Seeded trip", zap.String("tripId", created.ID), zap.String("title", s.title))
	}

	accounts, err := openAccounts(ctx, db, logger)
	if err != nil {
		log.Fatalf("Failed to open credit store: %v", err)
	}
	ledger := credit.NewCreditLedger(accounts, 3, logger)
	for vendorID, amount := range vendorCredits {
		if _, err := ledger.Purchase(ctx, vendorID, amount, "Seed credits"); err != nil {
			log.Fatalf("Failed to seed credits for %s: %v", vendorID, err)
		}
	}

	secret := []byte(config.AppConfig.JWTSecret)
	if len(secret) == 0 {
		fmt.Println("JWT_SECRET is not set; skipping tokens")
		return
	}
	for _, sub := range []struct{ id, role string }{
		{"vendor-1", utils.RoleVendor},
		{"vendor-2", utils.RoleVendor},
		{"user-1", utils.RoleUser},
	} {
		tok, err := utils.GenerateToken(secret, sub.id, sub.role, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("%s (%s): %s\n", sub.id, sub.role, tok)
	}
}

func openAccounts(ctx context.Context, db *mongo.Database, logger *zap.Logger) (accountRepo.AccountRepository, error) {
	if config.AppConfig.CreditStoreDriver != "postgres" {
		if err := accountRepo.EnsureIndexes(db); err != nil {
			return nil, err
		}
		return accountRepo.NewMongoAccountRepo(db), nil
	}
	pg, err := database.OpenPostgres(ctx, config.AppConfig.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}
	if err := accountRepo.EnsureSchema(ctx, pg); err != nil {
		return nil, err
	}
	return accountRepo.NewPostgresAccountRepo(pg), nil
}
