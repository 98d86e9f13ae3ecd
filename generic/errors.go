/*
errors.go - Centralized error types for the comparison engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The payscheme engine only ever returns InvalidConfigurationError; the
  store and api layers use the remaining sentinels.

ERROR CATEGORIES:
  1. Configuration errors - Input constraints violated (fail fast, no partial results)
  2. Store errors - Saved scenario lookups and conflicts

USAGE:
  if errors.Is(err, generic.ErrInvalidConfiguration) {
      var cfgErr *generic.InvalidConfigurationError
      errors.As(err, &cfgErr)
      fmt.Println(cfgErr.Field, cfgErr.Reason)
  }

SEE ALSO:
  - payscheme/config.go: Validation producing these errors
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is returned when a rate, multiplier, amount or
	// horizon violates its constraints.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	// It is always wrapped in an InvalidConfigurationError.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrScenarioNotFound is returned when a saved scenario doesn't exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidInput is returned when a request body or scenario document
	// cannot be decoded at all.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateRun is returned when a run with the same ID was already
	// appended to the run log.
	ErrDuplicateRun = errors.New("duplicate run id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidConfigurationError names the offending field and why it was rejected.
type InvalidConfigurationError struct {
	Field  string
	Value  string
	Reason string

	cause error
}

// NewInvalidConfiguration builds an InvalidConfigurationError for field.
func NewInvalidConfiguration(field, value, reason string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Value: value, Reason: reason}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s %s", e.Field, e.Value, e.Reason)
}

// Is makes the error match ErrInvalidConfiguration and, for inverted ranges,
// ErrInvalidPeriod.
func (e *InvalidConfigurationError) Is(target error) bool {
	if target == ErrInvalidConfiguration {
		return true
	}
	return e.cause != nil && target == e.cause
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicateRun)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScenarioNotFound)
}
