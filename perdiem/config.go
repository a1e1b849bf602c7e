/*
Package perdiem implements the per-diem rule engine: banding, meal
reduction, cross-border entitlement blocking, currency conversion, and the
trip-level money summary.

PURPOSE:
  Given one day's per-country time/meal aggregates plus an injected rate
  configuration and exchange-rate table, compute the domestic and foreign
  per-diem entries for that day; fold all days into the trip summary
  (base, paid, pocket money, grand total).

KEY CONCEPTS IN THIS FILE (config.go):
  - RateConfiguration: All rate tables and rule knobs, loaded once,
    read-only for the run. No defaults are baked into the engine; every
    threshold the rules need travels in this value.
  - ExchangeRateTable: currency code -> rate to CZK, captured at trip start.
  - SelectionPolicy: Which foreign country represents a multi-country day.

DESIGN PRINCIPLES:
  1. Money is decimal.Decimal end to end; hours stay float64
  2. Configuration is explicit: the engine receives it per call chain,
     never reads ambient globals
  3. Zero/placeholder bands are data, not errors

SEE ALSO:
  - bands.go: Band thresholds and meal reduction
  - engine.go: The day rule engine
  - summary.go: Trip totals
  - factory/rates.go: JSON -> RateConfiguration
*/
package perdiem

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/profisolv/trip-engine/trip"
)

// HomeCountry and HomeCurrency anchor the domestic side of the rules.
const (
	HomeCountry  = "CZ"
	HomeCurrency = "CZK"
)

// =============================================================================
// SELECTION POLICY - Representative foreign country on a multi-country day
// =============================================================================

// SelectionPolicy decides which foreign country's rate applies when several
// foreign countries are visited in one day. Both policies existed in the
// business rules at different times, so the choice is configuration, not code.
type SelectionPolicy string

const (
	// SelectDominantTime picks the foreign country with the most
	// accumulated hours that day.
	SelectDominantTime SelectionPolicy = "dominant_time"

	// SelectBestRate picks the foreign country whose configured daily rate,
	// converted to CZK, is highest. This is the default.
	SelectBestRate SelectionPolicy = "best_rate"
)

// =============================================================================
// RATE CONFIGURATION
// =============================================================================

// ForeignRate is one country's configured daily per-diem.
type ForeignRate struct {
	Country  string
	Currency string
	Daily    decimal.Decimal
}

// RateConfiguration carries every table the rule engine consults.
// Immutable once loaded; shared freely across days.
type RateConfiguration struct {
	// Domestic (CZ) tables, amounts in CZK.
	DomesticRates         map[Band]decimal.Decimal
	DomesticMealReduction map[Band]decimal.Decimal // percent per meal

	// Foreign tables.
	ForeignRates              map[string]ForeignRate   // country -> rate
	ForeignEntitlementPercent map[Band]decimal.Decimal // percent of daily rate
	ForeignMealReduction      map[Band]decimal.Decimal // percent per meal

	// PocketMoneyPercent of the pre-reduction per-diem base.
	PocketMoneyPercent decimal.Decimal

	// Selection picks the representative foreign country.
	Selection SelectionPolicy
}

// =============================================================================
// EXCHANGE RATES
// =============================================================================

// ExchangeRateTable converts amounts to the home currency. Fixed for the
// whole trip, captured from the bank at trip start.
type ExchangeRateTable struct {
	rates map[string]decimal.Decimal
}

// NewExchangeRateTable builds the table from the itinerary's bank rates.
// Fails with MissingHomeCurrencyRate when the CZK baseline is absent.
func NewExchangeRateTable(currencies []trip.CurrencyRate) (*ExchangeRateTable, error) {
	t := &ExchangeRateTable{rates: make(map[string]decimal.Decimal, len(currencies))}
	for _, c := range currencies {
		t.rates[normalizeCurrency(c.Code)] = c.Rate
	}
	if _, ok := t.rates[HomeCurrency]; !ok {
		return nil, ErrMissingHomeCurrencyRate
	}
	return t, nil
}

// Rate returns the CZK rate for a currency code.
func (t *ExchangeRateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[normalizeCurrency(code)]
	return r, ok
}

// Currencies returns the known currency codes, sorted.
func (t *ExchangeRateTable) Currencies() []string {
	codes := make([]string, 0, len(t.rates))
	for c := range t.rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
