package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tripmarket/models"
)

type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[string]*models.Booking)}
}

func (s *BookingStore) Create(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[booking.ID]; ok {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	b := *booking
	s.bookings[b.ID] = &b
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	c := *b
	return &c, nil
}

func (s *BookingStore) ListByTrip(_ context.Context, tripID string) ([]models.Booking, error) {
	return s.filter(func(b *models.Booking) bool { return b.TripID == tripID }), nil
}

func (s *BookingStore) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return s.filter(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (s *BookingStore) filter(keep func(*models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *BookingStore) TransitionStatus(_ context.Context, bookingID string, from, to models.BookingStatus, payment models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if b.BookingStatus != from {
		return models.ConflictError{Resource: "booking", ID: bookingID}
	}
	b.BookingStatus = to
	if payment != "" {
		b.PaymentStatus = payment
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (s *BookingStore) ClaimSeatRelease(_ context.Context, bookingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return false, models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if b.SeatsReleased {
		return false, nil
	}
	b.SeatsReleased = true
	return true, nil
}

func (s *BookingStore) ResetSeatRelease(_ context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	b.SeatsReleased = false
	return nil
}
