/*
errors.go - Rule engine error types

PURPOSE:
  Fatal lookup failures of the per-diem computation. A fatal condition
  aborts the run before any output is written; either a day's entries are
  fully computed or the caller gets an error naming the missing key.
  Zero/placeholder bands are NOT errors - they appear in output with an
  explicit band marker.

SEE ALSO:
  - trip/errors.go: Parse-time format errors
  - engine.go: Returns these errors
*/
package perdiem

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingRateConfig is returned when a visited country has no
	// configured foreign per-diem rate.
	ErrMissingRateConfig = errors.New("missing per-diem rate configuration")

	// ErrMissingExchangeRate is returned when a needed currency is absent
	// from the exchange-rate table.
	ErrMissingExchangeRate = errors.New("missing exchange rate")

	// ErrMissingHomeCurrencyRate is returned at load time when the
	// exchange-rate table lacks the CZK baseline.
	ErrMissingHomeCurrencyRate = errors.New("exchange rates missing home currency CZK")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the missing key
// =============================================================================

// MissingRateError names the country without a configured rate.
type MissingRateError struct {
	Country string
	Day     string // DD/MM label
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no per-diem rate configured for country %s (day %s)", e.Country, e.Day)
}

func (e *MissingRateError) Unwrap() error { return ErrMissingRateConfig }

// MissingExchangeRateError names the currency without a bank rate.
type MissingExchangeRateError struct {
	Currency string
	Country  string
}

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("no exchange rate for currency %s (country %s)", e.Currency, e.Country)
}

func (e *MissingExchangeRateError) Unwrap() error { return ErrMissingExchangeRate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigError returns true when the failure is a missing rate or
// exchange-rate entry, i.e. fixable by amending the injected configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingRateConfig) ||
		errors.Is(err, ErrMissingExchangeRate) ||
		errors.Is(err, ErrMissingHomeCurrencyRate)
}
