package models

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input or an entity in the wrong state.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

// NotFoundError reports a missing trip, vendor, booking or promotion.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnauthorizedError reports a vendor acting on a trip it does not own.
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "unauthorized"
	}
	return e.Msg
}

// InsufficientInventoryError is a business outcome: the trip cannot seat the party.
type InsufficientInventoryError struct {
	TripID    string
	Requested int
	Available int
}

func (e InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient seats on trip %s: requested %d, available %d", e.TripID, e.Requested, e.Available)
}

// InsufficientCreditsError is a business outcome: the vendor balance cannot cover the spend.
type InsufficientCreditsError struct {
	VendorID  string
	Required  int64
	Available int64
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits for vendor %s: required %d, available %d", e.VendorID, e.Required, e.Available)
}

// ConflictError reports optimistic-concurrency contention. A retry can resolve it.
type ConflictError struct {
	Resource string
	ID       string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}

// InvalidCouponError reports an unknown or disabled coupon code.
type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e InvalidCouponError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("coupon %q is not valid: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("coupon %q is not valid", e.Code)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInvalidCoupon(err error) bool {
	var target InvalidCouponError
	return errors.As(err, &target)
}

// AsInsufficientInventory extracts the inventory shortfall, if any.
func AsInsufficientInventory(err error) (InsufficientInventoryError, bool) {
	var target InsufficientInventoryError
	ok := errors.As(err, &target)
	return target, ok
}

// AsInsufficientCredits extracts the credit shortfall, if any.
func AsInsufficientCredits(err error) (InsufficientCreditsError, bool) {
	var target InsufficientCreditsError
	ok := errors.As(err, &target)
	return target, ok
}
