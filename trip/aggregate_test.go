package trip_test

import (
	"math"
	"testing"

	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func wp(hhmm, place, country string, next trip.Transition) trip.Waypoint {
	return trip.Waypoint{Time: hhmm, Place: place, Country: country, Next: next}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// =============================================================================
// EMPTY AND DEGENERATE DAYS
// =============================================================================

func TestAggregateDay_NoWaypoints(t *testing.T) {
	// GIVEN: A day with no waypoints
	// WHEN: Folding it
	// THEN: No country aggregates and no segments
	day, err := trip.AggregateDay(2026, "0112", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day.Countries) != 0 {
		t.Errorf("expected no country aggregates, got %d", len(day.Countries))
	}
	if len(day.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(day.Segments))
	}
	if day.Label != "12/01" {
		t.Errorf("expected label 12/01, got %q", day.Label)
	}
}

func TestAggregateDay_SingleWaypoint_MealsStillCounted(t *testing.T) {
	// GIVEN: A day with one waypoint carrying a provided meal
	// WHEN: Folding it
	// THEN: No time and no segments, but the meal is counted
	wps := []trip.Waypoint{
		{Time: "0800", Place: "Brno", Country: "CZ", Meals: 2, Next: trip.TransitionEnd},
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seg, ok := day.Countries["CZ"]
	if !ok {
		t.Fatal("expected a CZ aggregate")
	}
	if seg.Meals != 2 {
		t.Errorf("expected 2 meals, got %d", seg.Meals)
	}
	if seg.Hours != 0 {
		t.Errorf("expected 0 hours, got %v", seg.Hours)
	}
	if len(day.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(day.Segments))
	}
}

// =============================================================================
// TIME ATTRIBUTION
// =============================================================================

func TestAggregateDay_TimeBelongsToDepartureCountry(t *testing.T) {
	// GIVEN: A drive from CZ into DE, then activity in DE
	// WHEN: Folding the day
	// THEN: The leg out of CZ belongs to CZ, the rest to DE
	wps := []trip.Waypoint{
		wp("0800", "Brno", "CZ", trip.TransitionDrive),
		wp("1030", "Dresden", "DE", trip.TransitionMeeting),
		wp("1230", "Dresden", "DE", trip.TransitionEnd),
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := day.CountryHours("CZ"); !approx(got, 2.5) {
		t.Errorf("expected CZ 2.5 h, got %v", got)
	}
	if got := day.CountryHours("DE"); !approx(got, 2) {
		t.Errorf("expected DE 2 h, got %v", got)
	}
}

func TestAggregateDay_TerminalTransitionAccruesNoTime(t *testing.T) {
	// GIVEN: A waypoint marked "end" followed by a later waypoint
	// WHEN: Folding the day
	// THEN: The pair starting at the terminal waypoint contributes nothing
	wps := []trip.Waypoint{
		wp("0800", "Brno", "CZ", trip.TransitionEnd),
		wp("1200", "Brno", "CZ", trip.TransitionEnd),
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := day.CountryHours("CZ"); got != 0 {
		t.Errorf("expected 0 h after terminal transition, got %v", got)
	}
}

func TestAggregateDay_MidnightRollover(t *testing.T) {
	// GIVEN: A leg recorded under one day key whose end time reads earlier
	// WHEN: Folding the day
	// THEN: The end is pushed past midnight and the duration is positive
	wps := []trip.Waypoint{
		wp("2200", "Brno", "CZ", trip.TransitionDrive),
		wp("0200", "Praha", "CZ", trip.TransitionEnd),
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := day.CountryHours("CZ"); !approx(got, 4) {
		t.Errorf("expected 4 h across midnight, got %v", got)
	}
	if len(day.Segments) != 1 || day.Segments[0].Minutes != 240 {
		t.Fatalf("expected one 240-minute segment, got %+v", day.Segments)
	}
}

// =============================================================================
// DRIVE-RUN COLLAPSING
// =============================================================================

func TestAggregateDay_ConsecutiveDrivesCollapse(t *testing.T) {
	// GIVEN: Three consecutive drive hops crossing two borders
	// WHEN: Folding the day
	// THEN: Exactly one drive segment with summed distance and duration,
	//       ending in the destination country
	wps := []trip.Waypoint{
		{Time: "0800", Place: "Brno", Country: "CZ", Next: trip.TransitionDrive},
		{Time: "1000", Place: "Wien", Country: "AT", Next: trip.TransitionDrive, KM: 140},
		{Time: "1300", Place: "Graz", Country: "AT", Next: trip.TransitionDrive, KM: 200},
		{Time: "1500", Place: "Maribor", Country: "SI", Next: trip.TransitionEnd, KM: 120},
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(day.Segments) != 1 {
		t.Fatalf("expected 1 collapsed segment, got %d", len(day.Segments))
	}
	seg := day.Segments[0]
	if seg.Type != trip.SegmentDrive {
		t.Errorf("expected drive segment, got %s", seg.Type)
	}
	if seg.Country != "SI" {
		t.Errorf("expected destination country SI, got %s", seg.Country)
	}
	if seg.KM != 460 {
		t.Errorf("expected 460 km, got %d", seg.KM)
	}
	if seg.Minutes != 420 {
		t.Errorf("expected 420 minutes, got %d", seg.Minutes)
	}
	if seg.FromPlace != "Brno" || seg.ToPlace != "Maribor" {
		t.Errorf("expected Brno -> Maribor, got %s -> %s", seg.FromPlace, seg.ToPlace)
	}
}

func TestAggregateDay_MeetingTerminatesDriveRun(t *testing.T) {
	// GIVEN: Drive, drive, meeting, drive home
	// WHEN: Folding the day
	// THEN: Two drive segments around one meeting segment
	wps := []trip.Waypoint{
		{Time: "0700", Place: "Brno", Country: "CZ", Next: trip.TransitionDrive},
		{Time: "0900", Place: "Wien", Country: "AT", Next: trip.TransitionDrive, KM: 140},
		{Time: "1000", Place: "Linz", Country: "AT", Next: trip.TransitionMeeting, KM: 180, RDPercent: 60},
		{Time: "1200", Place: "Linz", Country: "AT", Next: trip.TransitionDrive},
		{Time: "1600", Place: "Brno", Country: "CZ", Next: trip.TransitionEnd, KM: 320},
	}
	day, err := trip.AggregateDay(2026, "0112", wps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(day.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(day.Segments))
	}

	out := day.Segments[0]
	if out.Type != trip.SegmentDrive || out.KM != 320 || out.Minutes != 180 || out.Country != "AT" {
		t.Errorf("unexpected outbound drive: %+v", out)
	}

	meet := day.Segments[1]
	if meet.Type != trip.SegmentMeeting || meet.Minutes != 120 || meet.RDPercent != 60 || meet.Country != "AT" {
		t.Errorf("unexpected meeting segment: %+v", meet)
	}

	home := day.Segments[2]
	if home.Type != trip.SegmentDrive || home.KM != 320 || home.Minutes != 240 || home.Country != "CZ" {
		t.Errorf("unexpected homebound drive: %+v", home)
	}
}

// =============================================================================
// TRIP-LEVEL AGGREGATION
// =============================================================================

func TestAggregateTrip_DaysSortedNumerically(t *testing.T) {
	// GIVEN: Day keys that sort differently as strings and as numbers
	// WHEN: Folding the trip
	// THEN: Days come out in calendar order and empty days are dropped
	it := &trip.Itinerary{
		Year: 2026,
		Waypoints: map[string][]trip.Waypoint{
			"1002": {wp("0800", "Brno", "CZ", trip.TransitionEnd)},
			"0922": {wp("0800", "Brno", "CZ", trip.TransitionEnd)},
			"0930": nil,
		},
	}
	days, err := trip.AggregateTrip(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Key != "0922" || days[1].Key != "1002" {
		t.Errorf("unexpected day order: %s, %s", days[0].Key, days[1].Key)
	}
}

func TestAggregateTrip_EmptyItinerary(t *testing.T) {
	days, err := trip.AggregateTrip(&trip.Itinerary{Year: 2026})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("expected no days, got %d", len(days))
	}
}
