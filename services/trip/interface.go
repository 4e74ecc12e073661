package trip

import (
	"context"

	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/models"

	"go.uber.org/zap"
)

// TripService is the vendor-facing trip catalog. It never touches seats or
// promotions; those belong to the inventory ledger and promotion engine.
type TripService interface {
	CreateTrip(ctx context.Context, vendorID string, req models.CreateTripRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	UpdateStatus(ctx context.Context, vendorID, tripID string, status models.TripStatus) (*models.Trip, error)
	ListVendorTrips(ctx context.Context, vendorID string) ([]models.Trip, error)
}

type DefaultTripService struct {
	Repo     tripRepo.TripRepository
	Logger   *zap.Logger
	Attempts uint
}

func NewTripService(repo tripRepo.TripRepository, attempts uint, logger *zap.Logger) *DefaultTripService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTripService{Repo: repo, Logger: logger, Attempts: attempts}
}
