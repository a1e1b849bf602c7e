package timesheet

import (
	"fmt"

	"github.com/profisolv/trip-engine/trip"
)

// ErrNoSegments is returned when the itinerary yields no travel segments;
// there is nothing to place on a timesheet row. Unwraps to trip.ErrEmptyTrip
// so the API layer's client-error check catches it.
var ErrNoSegments = fmt.Errorf("no travel segments built from itinerary: %w", trip.ErrEmptyTrip)
