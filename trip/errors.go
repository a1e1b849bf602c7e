/*
errors.go - Error types for itinerary parsing and aggregation

PURPOSE:
  All trip-level error types in one place. The perdiem and timesheet
  packages define their own errors files for rule-engine failures and
  wrap or test these with errors.Is.

ERROR CATEGORIES:
  1. Format errors - Malformed MMDD/HHMM fields, rejected at parse time
  2. Input errors  - Empty or unusable itineraries

SEE ALSO:
  - time.go: Returns the format errors
  - perdiem/errors.go: Rate and exchange-rate lookup failures
  - timesheet/errors.go: No-segments failure
*/
package trip

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDateFormat is returned for a malformed MMDD field.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidTimeFormat is returned for a malformed HHMM field.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrEmptyTrip is returned when an itinerary holds no usable waypoints.
	ErrEmptyTrip = errors.New("empty trip input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending field
// =============================================================================

// InvalidDateFormatError reports a malformed MMDD field.
type InvalidDateFormatError struct {
	Value  string
	Reason string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
}

func (e *InvalidDateFormatError) Unwrap() error { return ErrInvalidDateFormat }

// InvalidTimeFormatError reports a malformed HHMM field.
type InvalidTimeFormatError struct {
	Value  string
	Reason string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Value, e.Reason)
}

func (e *InvalidTimeFormatError) Unwrap() error { return ErrInvalidTimeFormat }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrEmptyTrip)
}
