package trip_test

import (
	"errors"
	"testing"
	"time"

	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParseDate_Valid(t *testing.T) {
	date, err := trip.ParseDate(2026, "0112")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("expected %v, got %v", want, date)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	cases := []string{"112", "01123", "1a12", "", "1301", "0132", "0001", "0100"}
	for _, mmdd := range cases {
		_, err := trip.ParseDate(2026, mmdd)
		if !errors.Is(err, trip.ErrInvalidDateFormat) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDateFormat, got %v", mmdd, err)
		}
	}
}

func TestParseDateTime_Valid(t *testing.T) {
	at, err := trip.ParseDateTime(2026, "0315", "0930")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("expected %v, got %v", want, at)
	}
}

func TestParseDateTime_Malformed(t *testing.T) {
	cases := []string{"930", "09300", "2400", "0960", "ab30"}
	for _, hhmm := range cases {
		_, err := trip.ParseDateTime(2026, "0315", hhmm)
		if !errors.Is(err, trip.ErrInvalidTimeFormat) {
			t.Errorf("ParseDateTime(%q): expected ErrInvalidTimeFormat, got %v", hhmm, err)
		}
	}
}

// =============================================================================
// DURATION AND ROLLOVER TESTS
// =============================================================================

func TestDurationHours_MayBeNegative(t *testing.T) {
	// GIVEN: An end instant before the start instant
	// WHEN: Computing the raw duration
	// THEN: The result is negative; rollover handling is the caller's job
	a := time.Date(2026, time.January, 12, 22, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.January, 12, 2, 0, 0, 0, time.UTC)

	if got := trip.DurationHours(a, b); got != -20 {
		t.Errorf("expected -20 hours, got %v", got)
	}
}

func TestRollover_AdvancesEndPastMidnight(t *testing.T) {
	// GIVEN: A leg recorded under one day key that crosses midnight
	// WHEN: Applying the rollover policy
	// THEN: The end instant moves one calendar day forward
	start := time.Date(2026, time.January, 12, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 12, 2, 0, 0, 0, time.UTC)

	rolled := trip.Rollover(start, end)
	if got := trip.DurationHours(start, rolled); got != 4 {
		t.Errorf("expected 4 hours after rollover, got %v", got)
	}
}

func TestRollover_NoChangeForOrderedLeg(t *testing.T) {
	start := time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	if got := trip.Rollover(start, end); !got.Equal(end) {
		t.Errorf("expected end unchanged, got %v", got)
	}
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatDayLabel(t *testing.T) {
	date := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	if got := trip.FormatDayLabel(date); got != "05/01" {
		t.Errorf("expected 05/01, got %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[string]string{
		"0930": "09:30",
		"930":  "09:30",
		"2215": "22:15",
	}
	for in, want := range cases {
		if got := trip.FormatClock(in); got != want {
			t.Errorf("FormatClock(%q): expected %q, got %q", in, want, got)
		}
	}
}
