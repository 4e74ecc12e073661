package inventory

import (
	"context"
	"time"

	"tripmarket/metrics"
	"tripmarket/models"
	"tripmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (l *DefaultInventoryLedger) ReserveSeats(ctx context.Context, tripID string, guestCount int) (*models.Reservation, error) {
	if guestCount <= 0 {
		return nil, models.ValidationError{Field: "guests", Msg: "at least one guest is required"}
	}

	var reservation *models.Reservation
	err := utils.RetryOnConflict(ctx, l.Attempts, "inventory", func() error {
		trip, err := l.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.AvailableSeats < guestCount {
			return models.InsufficientInventoryError{
				TripID:    tripID,
				Requested: guestCount,
				Available: trip.AvailableSeats,
			}
		}

		remaining := trip.AvailableSeats - guestCount
		if err := l.Trips.UpdateSeats(ctx, tripID, trip.Version, remaining); err != nil {
			return err
		}
		reservation = &models.Reservation{
			ID:             uuid.New().String(),
			TripID:         tripID,
			Seats:          guestCount,
			AvailableAfter: remaining,
			CreatedAt:      time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SeatsReserved.Add(float64(guestCount))
	l.Logger.Info("Seats reserved",
		zap.String("tripId", tripID),
		zap.String("reservationId", reservation.ID),
		zap.Int("seats", guestCount),
		zap.Int("availableAfter", reservation.AvailableAfter),
	)
	return reservation, nil
}

func (l *DefaultInventoryLedger) ReleaseSeats(ctx context.Context, tripID string, guestCount int) error {
	if guestCount <= 0 {
		return models.ValidationError{Field: "guests", Msg: "release count must be positive"}
	}

	var overflow, availableAfter, capacity int
	err := utils.RetryOnConflict(ctx, l.Attempts, "inventory", func() error {
		trip, err := l.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		next, over := trip.AvailableSeats+guestCount, 0
		if next > trip.TotalSeats {
			over = next - trip.TotalSeats
			next = trip.TotalSeats
		}
		if err := l.Trips.UpdateSeats(ctx, tripID, trip.Version, next); err != nil {
			return err
		}
		overflow, availableAfter, capacity = over, next, trip.TotalSeats
		return nil
	})
	if err != nil {
		return err
	}

	metrics.SeatsReleased.Add(float64(guestCount - overflow))
	if overflow > 0 {
		// A release past capacity means some booking was released twice or
		// never reserved; the clamp keeps the trip valid but the books are off.
		metrics.OverReleases.Inc()
		l.Logger.Error("Seat release exceeded trip capacity",
			zap.String("tripId", tripID),
			zap.Int("released", guestCount),
			zap.Int("overflow", overflow),
			zap.Int("totalSeats", capacity),
		)
		return nil
	}

	l.Logger.Info("Seats released",
		zap.String("tripId", tripID),
		zap.Int("seats", guestCount),
		zap.Int("availableAfter", availableAfter),
	)
	return nil
}
