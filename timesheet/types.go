/*
Package timesheet turns the trip's travel segments into timesheet rows:
travel-to-first-meeting and travel-from-last-meeting rollups (one row per
calendar day) plus the detailed block of meetings and inter-meeting drives,
with R&D-percentage-weighted time allocations.

PURPOSE:
  Produces exactly the rows and totals the spreadsheet writer places into
  the monthly timesheet template. No cell coordinates or styling here -
  only data.

R&D ALLOCATION:
  - Meetings keep their own recorded R&D percentage.
  - Drives inside the detailed block take the percentage of the NEXT
    chronological meeting (a drive after the last meeting gets 0).
  - Travel-there/home rows use the minutes-weighted average percentage
    across all meetings of the trip.
  - R&D minutes = round(minutes x percent / 100, 2).

SEE ALSO:
  - classify.go: Grouping and totals
  - trip/aggregate.go: Produces the segments consumed here
*/
package timesheet

// Row is one timesheet line, ready for the spreadsheet writer.
type Row struct {
	DayKey      string  `json:"mmdd"`
	Date        string  `json:"date"` // DD/MM
	Description string  `json:"description"`
	Start       string  `json:"start"` // HH:MM
	End         string  `json:"end"`   // HH:MM
	RDPercent   float64 `json:"rd_percent"`
	RDMinutes   float64 `json:"rd_minutes"`
	Minutes     int     `json:"duration_minutes"`
	KM          int     `json:"distance_km"`
}

// Totals carries the independent group sums. TravelMinutes covers the
// travel-there and travel-home rows, DetailMinutes the detailed block;
// neither is derived from the other.
type Totals struct {
	TravelMinutes     int     `json:"travel_minutes"`
	TravelRDMinutes   float64 `json:"travel_rd_minutes"`
	DetailMinutes     int     `json:"detail_minutes"`
	DetailRDMinutes   float64 `json:"detail_rd_minutes"`
	CombinedMinutes   int     `json:"combined_minutes"`
	CombinedRDMinutes float64 `json:"combined_rd_minutes"`
	AverageRDPercent  float64 `json:"average_rd_percent"`
}

// Report is the complete timesheet output for one trip.
type Report struct {
	TripNumber  int    `json:"trip_number"`
	PeriodLabel string `json:"period"` // "DD/MM - DD/MM"
	TravelThere []Row  `json:"travel_there"`
	TravelHome  []Row  `json:"travel_home"`
	Detailed    []Row  `json:"detailed"`
	Totals      Totals `json:"totals"`
}
