package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidCoupon     = errors.New("invalid coupon")
	ErrConflict          = errors.New("already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InvalidCouponError carries the validator's rejection reason to the caller.
type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("invalid coupon: %s", e.Reason)
	}
	return fmt.Sprintf("invalid coupon %s: %s", e.Code, e.Reason)
}

func (e *InvalidCouponError) Is(target error) bool {
	return target == ErrInvalidCoupon
}

// InvalidInput wraps ErrInvalidInput with a field-level message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
