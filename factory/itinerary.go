/*
Package factory converts JSON documents into the engine's configuration and
input values. This keeps the domain packages free of serialization concerns:
itineraries and rate tables can come from files, the HTTP API, or the
database, and all of them pass through here.

PURPOSE:
  - ParseItinerary: trip document JSON -> trip.Itinerary, with field
    normalization (padded HHMM, upper-cased country codes, lower-cased
    transitions) so the engines never see raw entry artifacts.
  - ParseRateConfiguration: settings JSON -> perdiem.RateConfiguration,
    with validation and defaults (see rates.go).

TOLERANT YEAR FIELD:
  The entry tooling historically wrote "year" as either a number or a
  string; both are accepted.

SEE ALSO:
  - rates.go: Rate configuration parsing
  - trip/types.go: The itinerary model
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// itineraryJSON mirrors the trip document with a tolerant year field.
type itineraryJSON struct {
	ReportID  string                     `json:"report_id"`
	Year      json.RawMessage            `json:"year"`
	Employee  trip.Employee              `json:"employee"`
	TripInfo  trip.TripInfo              `json:"trip_info"`
	BankRates trip.BankRates             `json:"bank_rates"`
	Waypoints map[string][]trip.Waypoint `json:"waypoints"`
	Bills     []trip.Bill                `json:"bills"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseItinerary decodes and normalizes a trip document.
func ParseItinerary(data []byte) (*trip.Itinerary, error) {
	var doc itineraryJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse itinerary: %w", err)
	}

	year, err := parseYear(doc.Year)
	if err != nil {
		return nil, err
	}

	it := &trip.Itinerary{
		ReportID:  doc.ReportID,
		Year:      year,
		Employee:  doc.Employee,
		TripInfo:  doc.TripInfo,
		BankRates: doc.BankRates,
		Waypoints: make(map[string][]trip.Waypoint, len(doc.Waypoints)),
		Bills:     doc.Bills,
	}

	for key, wps := range doc.Waypoints {
		normalized := make([]trip.Waypoint, len(wps))
		for i, wp := range wps {
			wp.Time = padClock(wp.Time)
			wp.Country = strings.ToUpper(strings.TrimSpace(wp.Country))
			wp.Next = trip.Transition(strings.ToLower(strings.TrimSpace(string(wp.Next))))
			normalized[i] = wp
		}
		it.Waypoints[key] = normalized
	}
	return it, nil
}

// parseYear accepts the year as a JSON number or string.
func parseYear(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("itinerary missing year")
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

// padClock left-pads an HHMM field to 4 digits ("930" -> "0930").
func padClock(hhmm string) string {
	hhmm = strings.TrimSpace(hhmm)
	for len(hhmm) > 0 && len(hhmm) < 4 {
		hhmm = "0" + hhmm
	}
	return hhmm
}
