/*
Package trip provides the core itinerary model and the waypoint aggregation
engine for travel reports.

PURPOSE:
  This package contains the domain-agnostic half of the travel report
  pipeline: the itinerary document (waypoints grouped by day, bank rates,
  trip metadata) and the fold that reduces a day's ordered waypoints into
  per-country time/meal aggregates and discrete drive/meeting segments.

KEY CONCEPTS IN THIS FILE (types.go):
  - Waypoint: A single recorded point (time, place, country, transition)
  - Itinerary: The full trip document as entered by the traveller
  - CountrySegment: Accumulated hours and meals for one country on one day
  - TravelSegment: A collapsed drive run or a single meeting

DESIGN PRINCIPLES:
  1. Immutability: Waypoints are never modified after parsing
  2. Keyed accumulation: Days and countries are map keys, not scanned lists
  3. Precision: Exchange rates and bill amounts use decimal.Decimal

SEE ALSO:
  - time.go: MMDD/HHMM parsing and duration arithmetic
  - aggregate.go: The day fold producing CountrySegments and TravelSegments
  - perdiem/: Consumes CountrySegments
  - timesheet/: Consumes TravelSegments
*/
package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSITIONS - What happens after a waypoint
// =============================================================================

// Transition is the marker on a waypoint describing the leg that follows it.
type Transition string

const (
	// TransitionDrive means the traveller drives to the next waypoint.
	TransitionDrive Transition = "drive"

	// TransitionMeeting means a meeting runs until the next waypoint.
	TransitionMeeting Transition = "meeting"

	// TransitionEnd marks the end of the day's recorded activity.
	TransitionEnd Transition = "end"

	// TransitionEndTrip marks the final waypoint of the whole trip.
	TransitionEndTrip Transition = "endtrip"
)

// IsTerminal reports whether the transition ends time accumulation for the
// pair starting at its waypoint. Unknown markers are treated as continuation.
func (t Transition) IsTerminal() bool {
	return t == TransitionEnd || t == TransitionEndTrip
}

// =============================================================================
// WAYPOINT - One recorded point of the itinerary
// =============================================================================

// Waypoint is a single recorded point in the itinerary. KM is the distance
// driven TO this waypoint (attached to the arrival), RDPercent is the R&D
// share of a meeting that starts here.
type Waypoint struct {
	Time      string     `json:"time"` // HHMM
	Place     string     `json:"place"`
	Country   string     `json:"country"` // 2-letter code, upper case
	Meals     int        `json:"meals"`
	Next      Transition `json:"next"`
	KM        int        `json:"km,omitempty"`
	RDPercent int        `json:"r_d,omitempty"`
}

// =============================================================================
// ITINERARY - The full trip document
// =============================================================================

// Itinerary is the trip document consumed by the computation engines.
// Waypoints are keyed by MMDD and ordered within each day.
type Itinerary struct {
	ReportID  string                `json:"report_id"`
	Year      int                   `json:"year"`
	Employee  Employee              `json:"employee"`
	TripInfo  TripInfo              `json:"trip_info"`
	BankRates BankRates             `json:"bank_rates"`
	Waypoints map[string][]Waypoint `json:"waypoints"`
	Bills     []Bill                `json:"bills,omitempty"`
}

// Employee identifies the traveller.
type Employee struct {
	Name string `json:"name"`
}

// TripInfo carries trip metadata for report headers.
type TripInfo struct {
	TripNumber      int       `json:"trip_number"`
	Description     string    `json:"description,omitempty"`
	TargetLocations string    `json:"target_locations,omitempty"`
	Transport       Transport `json:"transport"`
}

// Transport describes how the trip was made.
type Transport struct {
	Mode                string `json:"mode,omitempty"`
	VehicleRegistration string `json:"vehicle_registration,omitempty"`
}

// BankRates holds the exchange rates captured at trip start.
// Must include the home currency (CZK) with rate 1.
type BankRates struct {
	EffectiveDate string         `json:"effective_date,omitempty"` // MMDD
	Currencies    []CurrencyRate `json:"currencies"`
}

// CurrencyRate maps a currency code to its rate against the home currency.
type CurrencyRate struct {
	Code string          `json:"code"`
	Rate decimal.Decimal `json:"exchange_rate"`
}

// Bill is an expense receipt attached to the trip.
type Bill struct {
	Type     string          `json:"type"`
	Date     string          `json:"date,omitempty"` // YYYY-MM-DD
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// =============================================================================
// DERIVED SHAPES - Outputs of the day fold
// =============================================================================

// SegmentType distinguishes drive runs from meetings.
type SegmentType string

const (
	SegmentDrive   SegmentType = "drive"
	SegmentMeeting SegmentType = "meeting"
)

// CountrySegment is the accumulated presence in one country on one day.
type CountrySegment struct {
	Country string  `json:"country"`
	Hours   float64 `json:"time_hours"`
	Meals   int     `json:"meals"`
}

// TravelSegment is a discrete leg of the trip: either one meeting or a
// maximal run of consecutive drives (border crossings collapsed).
// For drives, Country is the DESTINATION country and KM the summed distance.
type TravelSegment struct {
	DayKey    string      `json:"mmdd"`
	DateLabel string      `json:"date"` // DD/MM
	Start     string      `json:"start_hhmm"`
	End       string      `json:"end_hhmm"`
	StartAt   time.Time   `json:"-"`
	EndAt     time.Time   `json:"-"`
	Type      SegmentType `json:"type"`
	Country   string      `json:"country"`
	FromPlace string      `json:"place_from"`
	ToPlace   string      `json:"place_to"`
	Minutes   int         `json:"minutes"`
	KM        int         `json:"km"`
	RDPercent float64     `json:"rd_percent"`
}

// DayAggregate is the result of folding one day's waypoints.
type DayAggregate struct {
	Key       string                     // MMDD
	Date      time.Time                  // midnight of the day
	Label     string                     // DD/MM
	Countries map[string]*CountrySegment // country code -> aggregate
	Segments  []TravelSegment            // ordered drive/meeting segments
}

// CountryHours returns the accumulated hours for a country, 0 if absent.
func (d *DayAggregate) CountryHours(country string) float64 {
	if seg, ok := d.Countries[country]; ok {
		return seg.Hours
	}
	return 0
}
