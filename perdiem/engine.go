/*
engine.go - The day rule engine

PURPOSE:
  Computes the per-diem entries for one day from its country aggregates:
  one domestic entry, and at most one foreign entry (which may be a
  blocked or under-minimum placeholder). Pure function of its inputs -
  identical aggregates and configuration always yield identical entries.

RULE ORDER (foreign side):
  1. Merge all non-domestic countries: total hours, total meals
  2. Entitlement blocking: >=5 h at home AND <5 h abroad -> blocked
  3. Banding: <1 h abroad -> under-minimum placeholder
  4. Country selection (dominant-time or best-rate, per configuration)
  5. Rate x entitlement percent, meal reduction, rounding
  6. Conversion to CZK via the trip's exchange rates

ENTRY VARIANTS:
  Following the kind-tagged record convention used throughout this module,
  Entry carries a Kind; fields not meaningful to a kind stay zero.
  Placeholder entries (blocked, under-minimum) have no currency and thus
  never contribute to the money totals.

SEE ALSO:
  - bands.go: Band thresholds, meal reduction
  - summary.go: Trip-level folding of day results
  - trip/aggregate.go: Produces the DayAggregate input
*/
package perdiem

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// ENTRY - One per-diem line of a day
// =============================================================================

// EntryKind tags the per-diem entry variants.
type EntryKind string

const (
	// EntryDomestic is the home-country entry. Always present, possibly
	// with a zero under_5 band.
	EntryDomestic EntryKind = "domestic"

	// EntryForeign is a computed foreign entry with a currency and amount.
	EntryForeign EntryKind = "foreign"

	// EntryForeignBlocked is the zero placeholder emitted when the
	// entitlement-blocking rule suppresses the foreign per diem.
	EntryForeignBlocked EntryKind = "foreign_blocked"

	// EntryForeignUnderMinimum is the zero placeholder for days with less
	// than one hour abroad.
	EntryForeignUnderMinimum EntryKind = "foreign_under_minimum"
)

// Entry is one per-diem line. Base is the pre-reduction entitlement in
// Currency (for foreign entries: daily rate x entitlement percent); Amount
// is the final meal-reduced amount rounded to 2 places. BaseHome and
// AmountHome carry the CZK values; for domestic entries they equal Base and
// Amount. Placeholder kinds carry only Kind, Country, and Band.
type Entry struct {
	Kind             EntryKind       `json:"kind"`
	Country          string          `json:"country"`
	Currency         string          `json:"currency,omitempty"`
	Band             Band            `json:"band"`
	Base             decimal.Decimal `json:"base"`
	Meals            int             `json:"meals"`
	ReductionPercent decimal.Decimal `json:"reduction_percent_per_meal"`
	Amount           decimal.Decimal `json:"amount"`
	BaseHome         decimal.Decimal `json:"base_czk"`
	AmountHome       decimal.Decimal `json:"amount_czk"`
}

// HasCurrency reports whether the entry carries real money (placeholders
// do not and are excluded from totals).
func (e Entry) HasCurrency() bool { return e.Currency != "" }

// DayResult is the per-diem output for one day.
type DayResult struct {
	Key      string               `json:"mmdd"`
	Label    string               `json:"date"` // DD/MM
	Segments []trip.CountrySegment `json:"segments"`
	Entries  []Entry              `json:"per_diem"`
	Comment  string               `json:"comment"`
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes day results from an injected configuration and
// exchange-rate table. Stateless apart from those two read-only values.
type Engine struct {
	Config *RateConfiguration
	Rates  *ExchangeRateTable
}

// NewEngine builds an engine over the given configuration and rates.
func NewEngine(cfg *RateConfiguration, rates *ExchangeRateTable) *Engine {
	return &Engine{Config: cfg, Rates: rates}
}

// ComputeDay applies the full rule set to one day's aggregates.
func (e *Engine) ComputeDay(day *trip.DayAggregate) (*DayResult, error) {
	result := &DayResult{
		Key:      day.Key,
		Label:    day.Label,
		Segments: orderedSegments(day),
	}

	domesticHours := day.CountryHours(HomeCountry)
	domesticMeals := 0
	if seg, ok := day.Countries[HomeCountry]; ok {
		domesticMeals = seg.Meals
	}

	domestic, err := e.domesticEntry(day.Label, domesticHours, domesticMeals)
	if err != nil {
		return nil, err
	}
	result.Entries = append(result.Entries, domestic)
	comment := fmt.Sprintf("home %.2f h -> %s", domesticHours, domestic.Band)

	foreign := foreignSegments(day)
	if len(foreign) > 0 {
		entry, note, err := e.foreignEntry(day.Label, domesticHours, foreign)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, entry)
		comment += "; " + note
	}

	result.Comment = comment
	return result, nil
}

// =============================================================================
// DOMESTIC RULE
// =============================================================================

func (e *Engine) domesticEntry(label string, hours float64, meals int) (Entry, error) {
	band := DomesticBand(hours)
	entry := Entry{
		Kind:     EntryDomestic,
		Country:  HomeCountry,
		Currency: HomeCurrency,
		Band:     band,
		Meals:    meals,
	}
	if band.Zero() {
		return entry, nil
	}

	base, ok := e.Config.DomesticRates[band]
	if !ok {
		return Entry{}, &MissingRateError{Country: HomeCountry, Day: label}
	}
	reduction := e.Config.DomesticMealReduction[band]

	entry.Base = base
	entry.BaseHome = base
	entry.ReductionPercent = reduction
	entry.Amount = ApplyMealReduction(base, reduction, meals).Round(2)
	entry.AmountHome = entry.Amount
	return entry, nil
}

// =============================================================================
// FOREIGN RULE
// =============================================================================

func (e *Engine) foreignEntry(label string, domesticHours float64, segs []trip.CountrySegment) (Entry, string, error) {
	hours := 0.0
	meals := 0
	for _, s := range segs {
		hours += s.Hours
		meals += s.Meals
	}
	merged := mergedCountries(segs)

	// Entitlement blocking: a full domestic day with a short hop abroad
	// keeps the domestic per diem and suppresses the foreign one.
	if domesticHours >= 5 && hours < 5 {
		entry := Entry{Kind: EntryForeignBlocked, Country: merged, Band: BandBlocked, Meals: meals}
		note := fmt.Sprintf("abroad %.2f h < 5 h with %.2f h at home -> foreign per diem blocked", hours, domesticHours)
		return entry, note, nil
	}

	band := ForeignBand(hours)
	if band.Zero() {
		entry := Entry{Kind: EntryForeignUnderMinimum, Country: merged, Band: band, Meals: meals}
		note := fmt.Sprintf("abroad %.2f h -> %s, no foreign per diem", hours, band)
		return entry, note, nil
	}

	rate, err := e.selectForeignRate(label, segs)
	if err != nil {
		return Entry{}, "", err
	}

	percent, ok := e.Config.ForeignEntitlementPercent[band]
	if !ok {
		return Entry{}, "", &MissingRateError{Country: rate.Country, Day: label}
	}
	reduction := e.Config.ForeignMealReduction[band]

	base := rate.Daily.Mul(percent).Div(decimal.NewFromInt(100))
	amount := ApplyMealReduction(base, reduction, meals).Round(2)

	fx, ok := e.Rates.Rate(rate.Currency)
	if !ok {
		return Entry{}, "", &MissingExchangeRateError{Currency: rate.Currency, Country: rate.Country}
	}

	entry := Entry{
		Kind:             EntryForeign,
		Country:          rate.Country,
		Currency:         rate.Currency,
		Band:             band,
		Base:             base,
		Meals:            meals,
		ReductionPercent: reduction,
		Amount:           amount,
		BaseHome:         base.Mul(fx),
		AmountHome:       amount.Mul(fx).Round(2),
	}
	note := fmt.Sprintf("abroad %.2f h -> %s, %s selected (%s)", hours, band, rate.Country, e.Config.Selection)
	return entry, note, nil
}

// selectForeignRate picks the representative foreign country per the
// configured policy. Ties resolve alphabetically for determinism.
func (e *Engine) selectForeignRate(label string, segs []trip.CountrySegment) (ForeignRate, error) {
	sorted := make([]trip.CountrySegment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Country < sorted[j].Country })

	switch e.Config.Selection {
	case SelectDominantTime:
		best := sorted[0]
		for _, s := range sorted[1:] {
			if s.Hours > best.Hours {
				best = s
			}
		}
		rate, ok := e.Config.ForeignRates[best.Country]
		if !ok {
			return ForeignRate{}, &MissingRateError{Country: best.Country, Day: label}
		}
		return rate, nil

	default: // SelectBestRate
		var best ForeignRate
		var bestValue decimal.Decimal
		for i, s := range sorted {
			rate, ok := e.Config.ForeignRates[s.Country]
			if !ok {
				return ForeignRate{}, &MissingRateError{Country: s.Country, Day: label}
			}
			fx, ok := e.Rates.Rate(rate.Currency)
			if !ok {
				return ForeignRate{}, &MissingExchangeRateError{Currency: rate.Currency, Country: s.Country}
			}
			value := rate.Daily.Mul(fx)
			if i == 0 || value.GreaterThan(bestValue) {
				best, bestValue = rate, value
			}
		}
		return best, nil
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// orderedSegments returns the day's country aggregates with the home
// country first and the rest alphabetical, so output is deterministic.
func orderedSegments(day *trip.DayAggregate) []trip.CountrySegment {
	segs := make([]trip.CountrySegment, 0, len(day.Countries))
	for _, s := range day.Countries {
		segs = append(segs, *s)
	}
	sort.Slice(segs, func(i, j int) bool {
		if (segs[i].Country == HomeCountry) != (segs[j].Country == HomeCountry) {
			return segs[i].Country == HomeCountry
		}
		return segs[i].Country < segs[j].Country
	})
	return segs
}

func foreignSegments(day *trip.DayAggregate) []trip.CountrySegment {
	var out []trip.CountrySegment
	for _, s := range day.Countries {
		if s.Country != HomeCountry {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

func mergedCountries(segs []trip.CountrySegment) string {
	s := ""
	for i, seg := range segs {
		if i > 0 {
			s += "+"
		}
		s += seg.Country
	}
	return s
}
