/*
classify.go - Segment classification and timesheet assembly

PURPOSE:
  Partitions the trip's chronological segment list around the meeting
  boundaries:
    travel-there: drive segments ending at or before the first meeting start
    travel-home:  drive segments starting at or after the last meeting end
    detailed:     everything else, in chronological order
  Travel groups collapse to one row per calendar day (summed minutes and
  distance, earliest start, latest end).

DEGENERATE TRIP:
  With a single meeting, one drive segment can satisfy both boundary
  conditions. It is assigned to travel-there only; counting its minutes in
  both groups would corrupt the totals the spreadsheet reconciles.

SEE ALSO:
  - types.go: Row, Totals, Report
  - trip/aggregate.go: Segment construction and drive-run collapsing
*/
package timesheet

import (
	"fmt"
	"math"
	"time"

	"github.com/profisolv/trip-engine/trip"
)

// Build assembles the full timesheet report for an itinerary.
// Fails with ErrNoSegments when the itinerary yields no segments at all.
func Build(it *trip.Itinerary) (*Report, error) {
	days, err := trip.AggregateTrip(it)
	if err != nil {
		return nil, err
	}

	var segs []trip.TravelSegment
	for _, day := range days {
		segs = append(segs, day.Segments...)
	}
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}

	report := &Report{TripNumber: it.TripInfo.TripNumber}
	report.PeriodLabel = periodLabel(days)

	firstStart, lastEnd, hasMeetings := meetingBounds(segs)
	avgRD := round2(weightedMeetingRD(segs))

	// Split. A segment qualifying for both travel groups goes to
	// travel-there.
	inTravel := make([]bool, len(segs))
	var there, home []trip.TravelSegment
	for i, s := range segs {
		if s.Type != trip.SegmentDrive || !hasMeetings {
			continue
		}
		if !s.EndAt.After(firstStart) {
			there = append(there, s)
			inTravel[i] = true
		} else if !s.StartAt.Before(lastEnd) {
			home = append(home, s)
			inTravel[i] = true
		}
	}

	thereDesc := "Travel to first meeting"
	if place := firstMeetingPlace(segs); place != "" {
		thereDesc = "Travel to " + place
	}
	report.TravelThere = rollupDaily(there, thereDesc, avgRD)
	report.TravelHome = rollupDaily(home, "Travel home", avgRD)

	report.Detailed = detailedRows(segs, inTravel)

	report.Totals = totals(report, avgRD)
	return report, nil
}

// =============================================================================
// MEETING BOUNDARIES AND R&D WEIGHTING
// =============================================================================

// meetingBounds finds the start of the earliest meeting and the end of the
// latest one. All times already carry their day, so plain comparison works
// across days.
func meetingBounds(segs []trip.TravelSegment) (first, last time.Time, ok bool) {
	for _, s := range segs {
		if s.Type != trip.SegmentMeeting {
			continue
		}
		if !ok {
			first, last, ok = s.StartAt, s.EndAt, true
			continue
		}
		if s.StartAt.Before(first) {
			first = s.StartAt
		}
		if s.EndAt.After(last) {
			last = s.EndAt
		}
	}
	return first, last, ok
}

// weightedMeetingRD is the minutes-weighted average R&D percentage across
// all meeting segments; 0 when there are no meeting minutes.
func weightedMeetingRD(segs []trip.TravelSegment) float64 {
	totalMin := 0
	weighted := 0.0
	for _, s := range segs {
		if s.Type != trip.SegmentMeeting {
			continue
		}
		totalMin += s.Minutes
		weighted += float64(s.Minutes) * s.RDPercent
	}
	if totalMin == 0 {
		return 0
	}
	return weighted / float64(totalMin)
}

func firstMeetingPlace(segs []trip.TravelSegment) string {
	for _, s := range segs {
		if s.Type == trip.SegmentMeeting {
			return s.FromPlace
		}
	}
	return ""
}

// =============================================================================
// ROW CONSTRUCTION
// =============================================================================

// rollupDaily collapses a travel group to one row per calendar day:
// summed minutes and distance, earliest start, latest end. The input is
// already chronological.
func rollupDaily(segs []trip.TravelSegment, description string, rdPercent float64) []Row {
	rows := make([]Row, 0, len(segs))
	for _, s := range segs {
		if n := len(rows); n > 0 && rows[n-1].DayKey == s.DayKey {
			row := &rows[n-1]
			row.End = trip.FormatClock(s.End)
			row.Minutes += s.Minutes
			row.KM += s.KM
			row.RDMinutes = rdMinutes(row.Minutes, rdPercent)
			continue
		}
		rows = append(rows, Row{
			DayKey:      s.DayKey,
			Date:        s.DateLabel,
			Description: description,
			Start:       trip.FormatClock(s.Start),
			End:         trip.FormatClock(s.End),
			RDPercent:   rdPercent,
			RDMinutes:   rdMinutes(s.Minutes, rdPercent),
			Minutes:     s.Minutes,
			KM:          s.KM,
		})
	}
	return rows
}

// detailedRows renders every segment not claimed by a travel group.
// Drive rows take the R&D percentage of the next chronological meeting,
// carried backwards through the list; a drive after the last meeting gets 0.
func detailedRows(segs []trip.TravelSegment, inTravel []bool) []Row {
	var detailed []trip.TravelSegment
	for i, s := range segs {
		if !inTravel[i] {
			detailed = append(detailed, s)
		}
	}

	percents := make([]float64, len(detailed))
	carry := 0.0
	for i := len(detailed) - 1; i >= 0; i-- {
		if detailed[i].Type == trip.SegmentMeeting {
			carry = detailed[i].RDPercent
			percents[i] = detailed[i].RDPercent
		} else {
			percents[i] = carry
		}
	}

	rows := make([]Row, 0, len(detailed))
	for i, s := range detailed {
		var desc string
		if s.Type == trip.SegmentDrive {
			desc = fmt.Sprintf("Travel to %s (%s)", s.ToPlace, s.Country)
		} else {
			desc = fmt.Sprintf("Meeting at %s (%s)", s.FromPlace, s.Country)
		}
		rows = append(rows, Row{
			DayKey:      s.DayKey,
			Date:        s.DateLabel,
			Description: desc,
			Start:       trip.FormatClock(s.Start),
			End:         trip.FormatClock(s.End),
			RDPercent:   percents[i],
			RDMinutes:   rdMinutes(s.Minutes, percents[i]),
			Minutes:     s.Minutes,
			KM:          s.KM,
		})
	}
	return rows
}

// =============================================================================
// TOTALS
// =============================================================================

func totals(r *Report, avgRD float64) Totals {
	var t Totals
	for _, row := range r.TravelThere {
		t.TravelMinutes += row.Minutes
		t.TravelRDMinutes += row.RDMinutes
	}
	for _, row := range r.TravelHome {
		t.TravelMinutes += row.Minutes
		t.TravelRDMinutes += row.RDMinutes
	}
	for _, row := range r.Detailed {
		t.DetailMinutes += row.Minutes
		t.DetailRDMinutes += row.RDMinutes
	}
	t.TravelRDMinutes = round2(t.TravelRDMinutes)
	t.DetailRDMinutes = round2(t.DetailRDMinutes)
	t.CombinedMinutes = t.TravelMinutes + t.DetailMinutes
	t.CombinedRDMinutes = round2(t.TravelRDMinutes + t.DetailRDMinutes)
	t.AverageRDPercent = avgRD
	return t
}

func periodLabel(days []*trip.DayAggregate) string {
	if len(days) == 0 {
		return ""
	}
	return days[0].Label + " - " + days[len(days)-1].Label
}

func rdMinutes(minutes int, percent float64) float64 {
	return round2(float64(minutes) * percent / 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
