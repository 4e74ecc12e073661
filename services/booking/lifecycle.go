package booking

import (
	"context"
	"fmt"

	"tripmarket/models"
	"tripmarket/utils"

	"go.uber.org/zap"
)

func authorize(b *models.Booking, actorID string) error {
	if actorID != b.UserID && actorID != b.VendorID {
		return models.UnauthorizedError{Msg: "booking belongs to another account"}
	}
	return nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, actorID); err != nil {
		return nil, err
	}
	return b, nil
}

// heldSeats reports whether a cancelled booking was confirmed before it was
// cancelled, which is the only way it can owe seats back.
func heldSeats(b *models.Booking) bool {
	return b.BookingStatus == models.BookingCancelled && b.PaymentStatus == models.PaymentRefunded
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	err = utils.RetryOnConflict(ctx, s.Attempts, "booking", func() error {
		current, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		switch current.BookingStatus {
		case models.BookingCancelled:
			return nil
		case models.BookingPending:
			return s.Bookings.TransitionStatus(ctx, bookingID, models.BookingPending, models.BookingCancelled, "")
		case models.BookingConfirmed:
			return s.Bookings.TransitionStatus(ctx, bookingID, models.BookingConfirmed, models.BookingCancelled, models.PaymentRefunded)
		}
		return models.ValidationError{
			Field: "bookingStatus",
			Msg:   fmt.Sprintf("cannot cancel a %s booking", current.BookingStatus),
		}
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if heldSeats(cancelled) && !cancelled.SeatsReleased {
		if err := s.releaseOnce(ctx, cancelled); err != nil {
			return nil, err
		}
		cancelled.SeatsReleased = true
	}

	if b.BookingStatus != models.BookingCancelled {
		s.Logger.Info("Booking cancelled",
			zap.String("bookingId", bookingID),
			zap.String("tripId", b.TripID),
			zap.String("previousStatus", string(b.BookingStatus)),
		)
	}
	return cancelled, nil
}

// releaseOnce hands the booking's seats back at most once across retries and
// concurrent cancellations, keyed by the booking id.
func (s *DefaultBookingService) releaseOnce(ctx context.Context, b *models.Booking) error {
	won, err := s.Bookings.ClaimSeatRelease(ctx, b.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if err := s.Inventory.ReleaseSeats(ctx, b.TripID, b.Guests.Count()); err != nil {
		s.withDetached(ctx, func(dctx context.Context) {
			if rerr := s.Bookings.ResetSeatRelease(dctx, b.ID); rerr != nil {
				s.Logger.Error("Failed to reset seat release claim",
					zap.String("bookingId", b.ID),
					zap.Error(rerr),
				)
			}
		})
		return fmt.Errorf("failed to release seats for booking %s: %w", b.ID, err)
	}
	return nil
}

// ConfirmBooking moves a PENDING booking to CONFIRMED, reserving its seats.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	switch b.BookingStatus {
	case models.BookingConfirmed:
		return b, nil
	case models.BookingPending:
	default:
		return nil, models.ValidationError{
			Field: "bookingStatus",
			Msg:   fmt.Sprintf("cannot confirm a %s booking", b.BookingStatus),
		}
	}

	reservation, err := s.Inventory.ReserveSeats(ctx, b.TripID, b.Guests.Count())
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.TransitionStatus(ctx, bookingID, models.BookingPending, models.BookingConfirmed, models.PaymentCompleted); err != nil {
		s.releaseReservation(ctx, reservation, err)
		return nil, err
	}

	s.Logger.Info("Booking confirmed",
		zap.String("bookingId", bookingID),
		zap.String("tripId", b.TripID),
		zap.String("reservationId", reservation.ID),
	)
	return s.Bookings.GetByID(ctx, bookingID)
}

// CompleteBooking is done by the trip's vendor once the trip has run.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, bookingID, vendorID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.VendorID != vendorID {
		return nil, models.UnauthorizedError{Msg: "only the trip vendor can complete a booking"}
	}
	switch b.BookingStatus {
	case models.BookingCompleted:
		return b, nil
	case models.BookingConfirmed:
	default:
		return nil, models.ValidationError{
			Field: "bookingStatus",
			Msg:   fmt.Sprintf("cannot complete a %s booking", b.BookingStatus),
		}
	}

	if err := s.Bookings.TransitionStatus(ctx, bookingID, models.BookingConfirmed, models.BookingCompleted, ""); err != nil {
		return nil, err
	}
	s.Logger.Info("Booking completed", zap.String("bookingId", bookingID))
	return s.Bookings.GetByID(ctx, bookingID)
}
