package license

import (
	"fmt"
	"strings"

	"github.com/entitle-inc/entitle/internal/shared/errors"
)

// Failure reasons. They are stable and part of the API contract.
const (
	ReasonInvalidProduct         = "invalid_product"
	ReasonKeyNotFound            = "key_not_found"
	ReasonKeyGenerationExhausted = "key_generation_exhausted"
	ReasonLicenseNotFound        = "license_not_found"
	ReasonLicenseExpired         = "license_expired"
	ReasonSeatLimitReached       = "seat_limit_reached"
	ReasonActivationNotFound     = "activation_not_found"
	ReasonInvalidStatus          = "invalid_status"
	ReasonCancelledMustRenew     = "cancelled_must_renew"
	ReasonInvalidSeatLimit       = "invalid_seat_limit"
	ReasonSeatLimitBelowUsage    = "seat_limit_below_usage"
	ReasonLockTimeout            = "lock_timeout"
	ReasonDuplicateValidLicense  = "duplicate_valid_license"
)

func ErrInvalidProduct() *errors.AppError {
	return errors.NewValidationError("One or more products are invalid for this brand").
		WithReason(ReasonInvalidProduct)
}

func ErrKeyNotFound() *errors.AppError {
	return errors.NewNotFoundError("License key not found for this customer").
		WithReason(ReasonKeyNotFound)
}

func ErrKeyGenerationExhausted(attempts int) *errors.AppError {
	return errors.NewUnavailableError("Could not generate a unique license key",
		fmt.Sprintf("gave up after %d attempts", attempts)).
		WithReason(ReasonKeyGenerationExhausted)
}

// ErrLicenseNotFound is deliberately identical for "absent", "owned by
// another brand" and "not in a usable state".
func ErrLicenseNotFound() *errors.AppError {
	return errors.NewNotFoundError("License not found for this brand").
		WithReason(ReasonLicenseNotFound)
}

func ErrLicenseExpired() *errors.AppError {
	return errors.NewForbiddenError("License has expired").
		WithReason(ReasonLicenseExpired)
}

func ErrSeatLimitReached(limit int) *errors.AppError {
	return errors.NewConflictError("Seat limit reached",
		fmt.Sprintf("seat limit is %d", limit)).
		WithReason(ReasonSeatLimitReached)
}

func ErrActivationNotFound() *errors.AppError {
	return errors.NewNotFoundError("Activation not found").
		WithReason(ReasonActivationNotFound)
}

func ErrInvalidStatus(got string) *errors.AppError {
	valid := make([]string, 0, 3)
	for _, s := range Statuses() {
		valid = append(valid, s.String())
	}
	return errors.NewValidationError("Invalid status",
		fmt.Sprintf("%q is not one of [%s]", got, strings.Join(valid, ", "))).
		WithReason(ReasonInvalidStatus)
}

func ErrCancelledMustRenew() *errors.AppError {
	return errors.NewConflictError("Cancelled licenses must be renewed").
		WithReason(ReasonCancelledMustRenew)
}

func ErrInvalidSeatLimit(got int) *errors.AppError {
	return errors.NewValidationError("Seat limit must be a positive number",
		fmt.Sprintf("got %d", got)).
		WithReason(ReasonInvalidSeatLimit)
}

func ErrSeatLimitBelowUsage(limit int, inUse int64) *errors.AppError {
	return errors.NewConflictError("Seat limit is below current usage",
		fmt.Sprintf("seat limit %d, active seats %d", limit, inUse)).
		WithReason(ReasonSeatLimitBelowUsage)
}

// ErrDuplicateValidLicense is returned when making a license valid would leave
// two valid licenses for one product on the same key.
func ErrDuplicateValidLicense(otherID uint) *errors.AppError {
	return errors.NewConflictError("Another valid license already covers this product on the key",
		fmt.Sprintf("license %d is valid", otherID)).
		WithReason(ReasonDuplicateValidLicense)
}

// ErrLockTimeout is returned when a row lock could not be acquired in time.
// The caller may retry with backoff.
func ErrLockTimeout() *errors.AppError {
	return errors.NewUnavailableError("License is busy, retry shortly").
		WithReason(ReasonLockTimeout)
}
