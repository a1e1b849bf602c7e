package trip

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME ARITHMETIC - MMDD/HHMM fields to instants and back
// =============================================================================
// The itinerary stores dates as MMDD and times as HHMM strings under a single
// trip year. These helpers are the only place that turns those textual fields
// into time.Time values.

// ParseDate converts a trip year and an MMDD field to midnight of that day.
// Returns InvalidDateFormatError if the field is not exactly 4 digits or
// the month/day is out of range.
func ParseDate(year int, mmdd string) (time.Time, error) {
	month, day, err := splitFourDigits(mmdd)
	if err != nil {
		return time.Time{}, &InvalidDateFormatError{Value: mmdd, Reason: "expected 4 digits MMDD"}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &InvalidDateFormatError{Value: mmdd, Reason: "month or day out of range"}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseDateTime converts a trip year, an MMDD field and an HHMM field to an
// instant. Returns InvalidTimeFormatError for a malformed HHMM field.
func ParseDateTime(year int, mmdd, hhmm string) (time.Time, error) {
	date, err := ParseDate(year, mmdd)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := splitFourDigits(hhmm)
	if err != nil {
		return time.Time{}, &InvalidTimeFormatError{Value: hhmm, Reason: "expected 4 digits HHMM"}
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, &InvalidTimeFormatError{Value: hhmm, Reason: "hour or minute out of range"}
	}
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

// DurationHours returns (b - a) in fractional hours. The result may be
// negative; callers detect that and apply the rollover policy.
func DurationHours(a, b time.Time) float64 {
	return b.Sub(a).Hours()
}

// Rollover advances end by one calendar day when it precedes start.
// Handles legs that cross midnight but are recorded under a single day key.
func Rollover(start, end time.Time) time.Time {
	if end.Before(start) {
		return end.AddDate(0, 0, 1)
	}
	return end
}

// FormatDayLabel renders a date as DD/MM, the label used on both reports.
func FormatDayLabel(date time.Time) string {
	return date.Format("02/01")
}

// FormatClock renders an HHMM field as HH:MM for timesheet rows.
// Short fields are zero-padded on the left ("930" -> "09:30").
func FormatClock(hhmm string) string {
	for len(hhmm) < 4 {
		hhmm = "0" + hhmm
	}
	return hhmm[:2] + ":" + hhmm[2:]
}

// splitFourDigits parses a strict 4-digit field into its two 2-digit halves.
func splitFourDigits(s string) (int, int, error) {
	if len(s) != 4 {
		return 0, 0, fmt.Errorf("expected 4 digits, got %q", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	hi := int(s[0]-'0')*10 + int(s[1]-'0')
	lo := int(s[2]-'0')*10 + int(s[3]-'0')
	return hi, lo, nil
}
