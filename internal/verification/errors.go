package verification

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when there is no record or no live challenge for a key.
	// Absence of a record is a valid state, callers decide whether it is an error.
	ErrNotFound = errors.New("not found")

	ErrChallengeExpired = errors.New("verification code has expired")
	ErrCodeMismatch     = errors.New("verification code is incorrect")
	ErrTooManyAttempts  = errors.New("too many incorrect attempts, request a new code")
	ErrResendTooSoon    = errors.New("please wait before requesting another code")
)

// ValidationError lists every missing or malformed input for the requested level.
// Messages are meant to be shown to the seller as-is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// StateConflictError means the request is well formed but the record is not in a state
// that allows it: an ineligible tier, or a review on a record that is no longer pending.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return e.Reason
}

func conflict(reason string) error {
	return &StateConflictError{Reason: reason}
}
