package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller input that fails local checks before any
	// database effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced scheme/scenario/item that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnresolvedLocation marks a postcode that does not geocode.
	ErrUnresolvedLocation = errors.New("location could not be resolved")

	// ErrDistanceUnavailable marks exhaustion of every distance fallback.
	ErrDistanceUnavailable = errors.New("distance could not be determined")

	// ErrScenarioLimit marks an attempt to create more snapshots than a
	// scheme may hold.
	ErrScenarioLimit = errors.New("scenario snapshot limit reached")

	// ErrSchemeLocked marks a mutation attempted against a locked scheme.
	ErrSchemeLocked = errors.New("scheme is locked")
)

// PartialFailureError reports a multi-step sequence that failed partway.
// Effects of steps before Step are NOT rolled back; the caller sees exactly
// where the sequence stopped.
type PartialFailureError struct {
	Step string
	Err  error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure at step %q: %v", e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func partialFailure(step string, err error) error {
	return &PartialFailureError{Step: step, Err: err}
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
