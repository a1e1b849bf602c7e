/*
aggregate.go - The day fold: waypoints to country aggregates and segments

PURPOSE:
  Reduces a day's ordered waypoint list into two derived shapes:
  (a) country -> CountrySegment: accumulated hours and meals per country
  (b) ordered TravelSegments: one per meeting, one per maximal drive run

DRIVE-RUN COLLAPSING:
  A border crossing is recorded as an intermediate waypoint whose "next"
  is again "drive". Emitting a segment per hop would put a spurious row on
  the timesheet for every border, so consecutive drive transitions collapse
  into one segment: start at the first waypoint, end at the last waypoint of
  the run, destination country, summed distance and summed hop durations.
  Only a meeting boundary or the end of the day terminates a run.

TIME ATTRIBUTION:
  The leg between waypoints i and i+1 belongs to waypoint i's country,
  unless waypoint i carries a terminal transition (end/endtrip). Meals
  always belong to the waypoint's own country, whatever the transition.

ROLLOVER:
  A leg whose end time precedes its start time within the same day key is
  assumed to cross midnight; the end instant is advanced by one day.

SEE ALSO:
  - types.go: DayAggregate, CountrySegment, TravelSegment
  - perdiem/engine.go: Consumes the country aggregates
  - timesheet/classify.go: Consumes the segments
*/
package trip

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TRIP-LEVEL AGGREGATION
// =============================================================================

// DayKeys returns the itinerary's day keys sorted numerically by MMDD.
// Days with no waypoints are omitted.
func DayKeys(it *Itinerary) []string {
	keys := make([]string, 0, len(it.Waypoints))
	for k, wps := range it.Waypoints {
		if len(wps) == 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// AggregateTrip folds every non-empty day of the itinerary in chronological
// order. An itinerary without usable waypoints yields an empty slice, not an
// error; only the timesheet builder treats that as a failure.
func AggregateTrip(it *Itinerary) ([]*DayAggregate, error) {
	var days []*DayAggregate
	for _, key := range DayKeys(it) {
		day, err := AggregateDay(it.Year, key, it.Waypoints[key])
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// =============================================================================
// DAY-LEVEL AGGREGATION
// =============================================================================

// AggregateDay folds one day's ordered waypoints. A day with fewer than two
// waypoints accumulates no time and emits no segments, but meals are still
// counted (a lone arrival waypoint can carry a provided meal).
func AggregateDay(year int, key string, wps []Waypoint) (*DayAggregate, error) {
	date, err := ParseDate(year, key)
	if err != nil {
		return nil, err
	}

	day := &DayAggregate{
		Key:       key,
		Date:      date,
		Label:     FormatDayLabel(date),
		Countries: make(map[string]*CountrySegment),
	}

	// Meals: every waypoint contributes to its own country.
	for _, wp := range wps {
		country := normalizeCountry(wp.Country)
		if country == "" {
			continue
		}
		day.country(country).Meals += wp.Meals
	}

	if len(wps) < 2 {
		return day, nil
	}

	// Time: leg (i, i+1) belongs to waypoint i's country unless i is terminal.
	for i := 0; i < len(wps)-1; i++ {
		country := normalizeCountry(wps[i].Country)
		if country == "" || wps[i].Next.IsTerminal() {
			continue
		}
		hours, err := legHours(year, key, wps[i].Time, wps[i+1].Time)
		if err != nil {
			return nil, err
		}
		day.country(country).Hours += hours
	}

	if err := day.buildSegments(year, wps); err != nil {
		return nil, err
	}
	return day, nil
}

// buildSegments walks waypoint pairs emitting meeting segments and collapsed
// drive runs. Pairs starting at a waypoint with any other transition emit
// nothing and the walk continues at the next waypoint.
func (day *DayAggregate) buildSegments(year int, wps []Waypoint) error {
	for i := 0; i < len(wps)-1; {
		switch wps[i].Next {
		case TransitionMeeting:
			seg, err := day.newSegment(year, SegmentMeeting, wps[i], wps[i+1])
			if err != nil {
				return err
			}
			seg.Country = normalizeCountry(wps[i].Country)
			seg.RDPercent = float64(wps[i].RDPercent)
			day.Segments = append(day.Segments, *seg)
			i++

		case TransitionDrive:
			// Collapse the maximal run of consecutive drive transitions.
			j := i + 1
			minutes, err := legMinutes(year, day.Key, wps[i].Time, wps[i+1].Time)
			if err != nil {
				return err
			}
			km := wps[i+1].KM
			for j < len(wps)-1 && wps[j].Next == TransitionDrive {
				hop, err := legMinutes(year, day.Key, wps[j].Time, wps[j+1].Time)
				if err != nil {
					return err
				}
				minutes += hop
				km += wps[j+1].KM
				j++
			}
			seg, err := day.newSegment(year, SegmentDrive, wps[i], wps[j])
			if err != nil {
				return err
			}
			seg.Country = normalizeCountry(wps[j].Country) // destination
			seg.Minutes = minutes
			seg.KM = km
			day.Segments = append(day.Segments, *seg)
			i = j

		default:
			i++
		}
	}
	return nil
}

// newSegment builds the shared fields of a segment spanning from..to.
// Minutes defaults to the from->to leg; collapsed drives overwrite it.
func (day *DayAggregate) newSegment(year int, kind SegmentType, from, to Waypoint) (*TravelSegment, error) {
	startAt, err := ParseDateTime(year, day.Key, from.Time)
	if err != nil {
		return nil, err
	}
	endAt, err := ParseDateTime(year, day.Key, to.Time)
	if err != nil {
		return nil, err
	}
	endAt = Rollover(startAt, endAt)

	minutes, err := legMinutes(year, day.Key, from.Time, to.Time)
	if err != nil {
		return nil, err
	}

	return &TravelSegment{
		DayKey:    day.Key,
		DateLabel: day.Label,
		Start:     from.Time,
		End:       to.Time,
		StartAt:   startAt,
		EndAt:     endAt,
		Type:      kind,
		FromPlace: from.Place,
		ToPlace:   to.Place,
		Minutes:   minutes,
	}, nil
}

// =============================================================================
// LEG ARITHMETIC
// =============================================================================

// legHours is the rollover-adjusted duration of one leg in fractional hours,
// clamped at zero.
func legHours(year int, mmdd, fromHHMM, toHHMM string) (float64, error) {
	start, end, err := legInstants(year, mmdd, fromHHMM, toHHMM)
	if err != nil {
		return 0, err
	}
	hours := DurationHours(start, end)
	if hours < 0 {
		hours = 0
	}
	return hours, nil
}

// legMinutes is the rollover-adjusted duration of one leg in whole minutes,
// clamped at zero.
func legMinutes(year int, mmdd, fromHHMM, toHHMM string) (int, error) {
	start, end, err := legInstants(year, mmdd, fromHHMM, toHHMM)
	if err != nil {
		return 0, err
	}
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return minutes, nil
}

func legInstants(year int, mmdd, fromHHMM, toHHMM string) (time.Time, time.Time, error) {
	start, err := ParseDateTime(year, mmdd, fromHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDateTime(year, mmdd, toHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, Rollover(start, end), nil
}

// country returns the day's aggregate for a country, creating it on first use.
func (day *DayAggregate) country(code string) *CountrySegment {
	seg, ok := day.Countries[code]
	if !ok {
		seg = &CountrySegment{Country: code}
		day.Countries[code] = seg
	}
	return seg
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
