/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the API surface. The computed report types
  (perdiem.Report, timesheet.Report) already carry JSON tags and are
  returned as-is; the DTOs here wrap the stored-record metadata and the
  compute request envelopes.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - store/sqlite: The records these DTOs summarize
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/profisolv/trip-engine/store/sqlite"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ComputeRequest carries an itinerary and rate settings for stateless
// computation. Rates may be omitted for the timesheet endpoint.
type ComputeRequest struct {
	Itinerary json.RawMessage `json:"itinerary"`
	Rates     json.RawMessage `json:"rates,omitempty"`
}

// CreateRateConfigRequest stores a named rate settings document.
type CreateRateConfigRequest struct {
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// TripDTO summarizes a stored itinerary.
type TripDTO struct {
	ID         string `json:"id"`
	ReportID   string `json:"report_id"`
	TripNumber int    `json:"trip_number"`
	Year       int    `json:"year"`
	CreatedAt  string `json:"created_at"`
}

// RateConfigDTO summarizes a stored rate settings document.
type RateConfigDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ReportRecordDTO summarizes a persisted computed report.
type ReportRecordDTO struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTripDTO(rec sqlite.TripRecord) TripDTO {
	return TripDTO{
		ID:         rec.ID,
		ReportID:   rec.ReportID,
		TripNumber: rec.TripNumber,
		Year:       rec.Year,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

func toRateConfigDTO(rec sqlite.RateConfigRecord) RateConfigDTO {
	return RateConfigDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}

func toReportRecordDTO(rec sqlite.ReportRecord) ReportRecordDTO {
	return ReportRecordDTO{
		ID:        rec.ID,
		TripID:    rec.TripID,
		Kind:      string(rec.Kind),
		Payload:   json.RawMessage(rec.PayloadJSON),
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}
