package main

import (
	"context"
	"fmt"

	"tripmarket/config"
	"tripmarket/database"
	accountRepo "tripmarket/database/repository/account"
	bookingRepo "tripmarket/database/repository/booking"
	memoryRepo "tripmarket/database/repository/memory"
	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type stores struct {
	trips    tripRepo.TripRepository
	bookings bookingRepo.BookingRepository
	accounts accountRepo.AccountRepository
	checks   map[string]utils.HealthCheck
	closers  []func(context.Context) error
}

func (s *stores) close() {
	for _, c := range s.closers {
		_ = c(context.Background())
	}
}

// openStores picks the repositories named by STORE_DRIVER and
// CREDIT_STORE_DRIVER and prepares their indexes or schema.
func openStores(ctx context.Context, logger *zap.Logger) (*stores, error) {
	cfg := config.AppConfig
	st := &stores{checks: map[string]utils.HealthCheck{}}

	var mongoDB *mongo.Database
	connectMongo := func() (*mongo.Database, error) {
		if mongoDB != nil {
			return mongoDB, nil
		}
		db, err := database.InitDB(logger)
		if err != nil {
			return nil, err
		}
		mongoDB = db
		st.closers = append(st.closers, database.CloseDB)
		st.checks["mongo"] = func(ctx context.Context) error {
			return database.MongoClient.Ping(ctx, nil)
		}
		return db, nil
	}

	switch cfg.StoreDriver {
	case "memory":
		st.trips = memoryRepo.NewTripStore()
		st.bookings = memoryRepo.NewBookingStore()
	case "mongo", "":
		db, err := connectMongo()
		if err != nil {
			return nil, err
		}
		if err := tripRepo.EnsureIndexes(db); err != nil {
			return nil, err
		}
		if err := bookingRepo.EnsureIndexes(db); err != nil {
			return nil, err
		}
		st.trips = tripRepo.NewMongoTripRepo(db)
		st.bookings = bookingRepo.NewMongoBookingRepo(db)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.CreditStoreDriver {
	case "memory":
		st.accounts = memoryRepo.NewAccountStore()
	case "mongo", "":
		db, err := connectMongo()
		if err != nil {
			return nil, err
		}
		if err := accountRepo.EnsureIndexes(db); err != nil {
			return nil, err
		}
		st.accounts = accountRepo.NewMongoAccountRepo(db)
	case "postgres":
		pg, err := database.OpenPostgres(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		if err := accountRepo.EnsureSchema(ctx, pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
		st.accounts = accountRepo.NewPostgresAccountRepo(pg)
		st.closers = append(st.closers, func(context.Context) error { return pg.Close() })
		st.checks["postgres"] = func(ctx context.Context) error { return pg.PingContext(ctx) }
	default:
		return nil, fmt.Errorf("unknown CREDIT_STORE_DRIVER %q", cfg.CreditStoreDriver)
	}

	logger.Info("Stores ready",
		zap.String("storeDriver", cfg.StoreDriver),
		zap.String("creditStoreDriver", cfg.CreditStoreDriver),
	)
	return st, nil
}

