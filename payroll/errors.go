/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As; the engine never retries
  internally because none of these resolve without caller action.

ERROR CATEGORIES:
  1. Argument errors  - Non-positive ids/years, rejected before any mutation
  2. Not-found errors - Unknown employee or paycheck
  3. Conflict errors  - A record changed between load and commit
  4. Domain errors    - Benefit/discount attributes outside declared ranges

SEE ALSO:
  - engine.go: Raises argument and not-found errors
  - store.go: Commit contract for conflict errors
  - benefit.go: Domain range validation
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for non-positive employee ids or years.
	// Raised before any mutation; fix the input and retry.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrPaycheckNotFound is returned when a referenced paycheck doesn't exist.
	ErrPaycheckNotFound = errors.New("paycheck not found")

	// ErrDependentNotFound is returned when a referenced dependent doesn't exist.
	ErrDependentNotFound = errors.New("dependent not found")

	// ErrConcurrentModification is returned when a commit detects that a
	// paycheck was modified by another actor since it was loaded.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrPaycheckAlreadySent is returned when marking a sent paycheck sent again.
	ErrPaycheckAlreadySent = errors.New("paycheck already sent")

	// ErrInvalidBenefit is returned when a benefit record violates its
	// declared attribute ranges.
	ErrInvalidBenefit = errors.New("invalid benefit")

	// ErrInvalidDiscount is returned when a discount record violates its
	// declared attribute ranges.
	ErrInvalidDiscount = errors.New("invalid discount")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ArgumentError reports which argument was rejected.
type ArgumentError struct {
	Name  string
	Value int64
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %d (must be positive)", e.Name, e.Value)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// EmployeeNotFoundError reports the missing employee id.
type EmployeeNotFoundError struct {
	EmployeeID int64
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("unable to find employee by id %d", e.EmployeeID)
}

func (e *EmployeeNotFoundError) Unwrap() error { return ErrEmployeeNotFound }

// BenefitError reports a benefit whose attributes are out of range.
type BenefitError struct {
	BenefitID int64
	Reason    string
}

func (e *BenefitError) Error() string {
	return fmt.Sprintf("benefit %d: %s", e.BenefitID, e.Reason)
}

func (e *BenefitError) Unwrap() error { return ErrInvalidBenefit }

// DiscountError reports a discount whose attributes are out of range.
type DiscountError struct {
	DiscountID int64
	Reason     string
}

func (e *DiscountError) Error() string {
	return fmt.Sprintf("discount %d: %s", e.DiscountID, e.Reason)
}

func (e *DiscountError) Unwrap() error { return ErrInvalidDiscount }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed after a re-fetch.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidBenefit) ||
		errors.Is(err, ErrInvalidDiscount) ||
		errors.Is(err, ErrPaycheckAlreadySent)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPaycheckNotFound) ||
		errors.Is(err, ErrDependentNotFound)
}
