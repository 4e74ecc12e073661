package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tripmarket/models"
	"tripmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validateDraft(req models.CreateTripRequest) error {
	if strings.TrimSpace(req.Destination) == "" {
		return models.ValidationError{Field: "destination", Msg: "is required"}
	}
	if req.BasePrice <= 0 {
		return models.ValidationError{Field: "basePrice", Msg: "must be greater than zero"}
	}
	if req.TotalSeats <= 0 {
		return models.ValidationError{Field: "totalSeats", Msg: "must be greater than zero"}
	}
	sp := req.SharingPrices
	if sp.Single < 0 || sp.Double < 0 || sp.Triple < 0 || sp.Quad < 0 {
		return models.ValidationError{Field: "sharingPrices", Msg: "must not be negative"}
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return models.ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}
	return nil
}

// CreateTrip stores a DRAFT trip with every seat available.
func (s *DefaultTripService) CreateTrip(ctx context.Context, vendorID string, req models.CreateTripRequest) (*models.Trip, error) {
	if vendorID == "" {
		return nil, models.ValidationError{Field: "vendorId", Msg: "is required"}
	}
	if err := validateDraft(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Destination)
	}
	now := time.Now().UTC()
	trip := &models.Trip{
		ID:             uuid.New().String(),
		VendorID:       vendorID,
		Title:          title,
		Destination:    strings.TrimSpace(req.Destination),
		BasePrice:      req.BasePrice,
		SharingPrices:  req.SharingPrices,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         models.TripDraft,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Promotions:     []models.Promotion{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.Logger.Info("Trip created",
		zap.String("tripId", trip.ID),
		zap.String("vendorId", vendorID),
		zap.Int("totalSeats", trip.TotalSeats),
	)
	return trip, nil
}

// GetTrip returns the trip with promotions past their window shown as expired,
// even if the expiry job has not run yet.
func (s *DefaultTripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.Repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	trip.ExpireLapsed(time.Now())
	return trip, nil
}

func (s *DefaultTripService) UpdateStatus(ctx context.Context, vendorID, tripID string, status models.TripStatus) (*models.Trip, error) {
	var from models.TripStatus
	err := utils.RetryOnConflict(ctx, s.Attempts, "trip", func() error {
		trip, err := s.Repo.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.VendorID != vendorID {
			return models.UnauthorizedError{Msg: "trip does not belong to this vendor"}
		}
		if trip.Status == status {
			from = status
			return nil
		}
		if !models.CanTransitionTrip(trip.Status, status) {
			return models.ValidationError{
				Field: "status",
				Msg:   fmt.Sprintf("cannot move trip from %s to %s", trip.Status, status),
			}
		}
		from = trip.Status
		return s.Repo.UpdateStatus(ctx, tripID, trip.Status, status)
	})
	if err != nil {
		return nil, err
	}

	if from != status {
		s.Logger.Info("Trip status changed",
			zap.String("tripId", tripID),
			zap.String("from", string(from)),
			zap.String("to", string(status)),
		)
	}
	return s.GetTrip(ctx, tripID)
}

func (s *DefaultTripService) ListVendorTrips(ctx context.Context, vendorID string) ([]models.Trip, error) {
	trips, err := s.Repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range trips {
		trips[i].ExpireLapsed(now)
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return trips, nil
}
