// Package memoryRepo holds in-process implementations of the repositories. They
// honour the same version and status guards as the database-backed stores and
// back the memory store driver and the service tests.
package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tripmarket/models"
)

type TripStore struct {
	mu    sync.RWMutex
	trips map[string]*models.Trip
}

func NewTripStore() *TripStore {
	return &TripStore{trips: make(map[string]*models.Trip)}
}

func cloneTrip(t *models.Trip) *models.Trip {
	c := *t
	c.Promotions = append([]models.Promotion(nil), t.Promotions...)
	return &c
}

func (s *TripStore) Create(_ context.Context, trip *models.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[trip.ID]; ok {
		return fmt.Errorf("trip %s already exists", trip.ID)
	}
	if trip.Promotions == nil {
		trip.Promotions = []models.Promotion{}
	}
	s.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (s *TripStore) GetByID(_ context.Context, tripID string) (*models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, models.NotFoundError{Resource: "trip", ID: tripID}
	}
	return cloneTrip(t), nil
}

func (s *TripStore) ListByVendor(_ context.Context, vendorID string) ([]models.Trip, error) {
	return s.filter(func(t *models.Trip) bool { return t.VendorID == vendorID }), nil
}

func (s *TripStore) ListPromoted(_ context.Context) ([]models.Trip, error) {
	return s.filter(func(t *models.Trip) bool { return t.IsPromoted }), nil
}

func (s *TripStore) filter(keep func(*models.Trip) bool) []models.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Trip
	for _, t := range s.trips {
		if keep(t) {
			out = append(out, *cloneTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *TripStore) UpdateStatus(_ context.Context, tripID string, from, to models.TripStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return models.NotFoundError{Resource: "trip", ID: tripID}
	}
	if t.Status != from {
		return models.ConflictError{Resource: "trip", ID: tripID}
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}

func (s *TripStore) UpdateSeats(_ context.Context, tripID string, expectedVersion, availableSeats int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return models.NotFoundError{Resource: "trip", ID: tripID}
	}
	if t.Version != expectedVersion || availableSeats > t.TotalSeats {
		return models.ConflictError{Resource: "trip", ID: tripID}
	}
	t.AvailableSeats = availableSeats
	t.Version++
	t.UpdatedAt = time.Now()
	return nil
}

func (s *TripStore) ReplacePromotions(_ context.Context, tripID string, expectedVersion int, promotions []models.Promotion, isPromoted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return models.NotFoundError{Resource: "trip", ID: tripID}
	}
	if t.PromotionsVersion != expectedVersion {
		return models.ConflictError{Resource: "trip", ID: tripID}
	}
	t.Promotions = append([]models.Promotion(nil), promotions...)
	t.IsPromoted = isPromoted
	t.PromotionsVersion++
	t.UpdatedAt = time.Now()
	return nil
}
