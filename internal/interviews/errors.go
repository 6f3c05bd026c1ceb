package interviews

import (
	"errors"
	"fmt"
)

// Structured error kinds shared by every backend implementation. Callers
// branch with errors.Is; the submit protocol depends on ErrDuplicate and
// ErrCapacityExhausted being distinguishable from generic failure.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when the backend refuses a booking because
	// the guardian already holds one on that date. The create request may
	// be retried once with the override flag for soft duplicates.
	ErrDuplicate = errors.New("duplicate booking")

	// ErrCapacityExhausted is returned when no slot time remains on the
	// requested date.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrInvalidTransition is returned when a status change leaves the
	// allowed lifecycle (pending -> completed | canceled).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoSchedule is returned when the owner has no known weekly slot.
	// Booking is blocked, never silently allowed.
	ErrNoSchedule = errors.New("no weekly schedule")
)

// ValidationError reports a field-level problem detected before any
// network or storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("interviews: invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
