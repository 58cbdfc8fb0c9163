package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports the first request field that failed shape checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GenerationError wraps a failure of the external generation service.
// Retryable is set for overload-class failures (HTTP 503/429) so the
// caller can tell the user to try again; no retry happens server-side.
type GenerationError struct {
	Retryable bool
	Err       error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return "generation failed: " + e.Err.Error()
	}
	return "generation failed"
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError wraps a store read/write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AuthError covers a missing or invalid caller identity.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "unauthorized: " + e.Reason }

// NotFoundError covers lookups by id that match nothing owned by the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ErrPaymentRequired gates reading generation when payment enforcement is on.
var ErrPaymentRequired = errors.New("a completed order is required before generating a reading")

// IsRetryableGeneration reports whether err is a GenerationError tagged
// as an overload the caller may retry.
func IsRetryableGeneration(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Retryable
}
