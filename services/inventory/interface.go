package inventory

import (
	"context"

	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/models"

	"go.uber.org/zap"
)

// InventoryLedger is the only writer of Trip.AvailableSeats.
type InventoryLedger interface {
	// ReserveSeats takes guestCount seats off the trip or fails with
	// models.InsufficientInventoryError and no side effect.
	ReserveSeats(ctx context.Context, tripID string, guestCount int) (*models.Reservation, error)
	// ReleaseSeats returns guestCount seats, clamped at the trip capacity.
	ReleaseSeats(ctx context.Context, tripID string, guestCount int) error
}

// DefaultInventoryLedger serialises seat writes through the trip version.
type DefaultInventoryLedger struct {
	Trips    tripRepo.TripRepository
	Logger   *zap.Logger
	Attempts uint
}

func NewInventoryLedger(trips tripRepo.TripRepository, attempts uint, logger *zap.Logger) *DefaultInventoryLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultInventoryLedger{Trips: trips, Logger: logger, Attempts: attempts}
}
