package booking

import (
	"context"
	"errors"

	"tripmarket/models"
)

// rejectionReason labels a failed createBooking for metrics.
func rejectionReason(err error) string {
	if _, ok := models.AsInsufficientInventory(err); ok {
		return "inventory"
	}
	switch {
	case models.IsInvalidCoupon(err):
		return "coupon"
	case models.IsValidation(err):
		return "validation"
	case models.IsNotFound(err):
		return "not_found"
	case models.IsConflict(err):
		return "conflict"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}
	return "internal"
}

func validateRequest(userID string, req models.CreateBookingRequest) error {
	if userID == "" {
		return models.ValidationError{Field: "userId", Msg: "is required"}
	}
	if req.TripID == "" {
		return models.ValidationError{Field: "tripId", Msg: "is required"}
	}
	if req.Guests.Adults < 1 {
		return models.ValidationError{Field: "guests.adults", Msg: "at least one adult is required"}
	}
	if req.Guests.Children < 0 {
		return models.ValidationError{Field: "guests.children", Msg: "must not be negative"}
	}
	if req.Contact.Name == "" {
		return models.ValidationError{Field: "contact.name", Msg: "is required"}
	}
	if req.Contact.Email == "" && req.Contact.Phone == "" {
		return models.ValidationError{Field: "contact", Msg: "email or phone is required"}
	}
	return nil
}
