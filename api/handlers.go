/*
handlers.go - HTTP API handlers for the travel report engine

PURPOSE:
  Exposes the per-diem and timesheet engines via REST. Handles HTTP
  request/response, JSON serialization, and delegates to the domain
  packages. Each computation is an isolated pure pass over its inputs;
  no state is shared between requests beyond the store.

ENDPOINTS:
  Stateless computation:
    POST   /api/compute/perdiem     Compute a per-diem report
    POST   /api/compute/timesheet   Compute timesheet rows

  Trips:
    GET    /api/trips               List stored itineraries
    POST   /api/trips               Store an itinerary document
    GET    /api/trips/{id}          Fetch one stored itinerary
    POST   /api/trips/{id}/perdiem  Compute + persist a per-diem report
    POST   /api/trips/{id}/timesheet Compute + persist a timesheet
    GET    /api/trips/{id}/reports  List persisted reports

  Rate settings:
    GET    /api/rates               List stored settings documents
    POST   /api/rates               Store a settings document
    GET    /api/rates/{id}          Fetch one settings document

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed documents, bad MMDD/HHMM fields, empty itineraries
  - 404: Unknown trip or settings ID
  - 422: Missing rate or exchange-rate entries for a visited country
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/profisolv/trip-engine/factory"
	"github.com/profisolv/trip-engine/perdiem"
	"github.com/profisolv/trip-engine/store/sqlite"
	"github.com/profisolv/trip-engine/timesheet"
	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// defaultRates is used for stored-trip computation when the request
	// names no settings document. May be empty.
	defaultRates string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// SetDefaultRates registers the settings document used when a computation
// request does not name one.
func (h *Handler) SetDefaultRates(configID string) {
	h.defaultRates = configID
}

// =============================================================================
// STATELESS COMPUTATION
// =============================================================================

// ComputePerDiem computes a per-diem report from an inline itinerary and
// rate settings. POST /api/compute/perdiem
func (h *Handler) ComputePerDiem(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	it, err := factory.ParseItinerary(req.Itinerary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid itinerary", err)
		return
	}
	cfg, err := factory.ParseRateConfiguration(req.Rates)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate settings", err)
		return
	}

	report, err := perdiem.ComputeReport(it, cfg)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ComputeTimesheet computes timesheet rows from an inline itinerary.
// POST /api/compute/timesheet
func (h *Handler) ComputeTimesheet(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	it, err := factory.ParseItinerary(req.Itinerary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid itinerary", err)
		return
	}

	report, err := timesheet.Build(it)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// TRIPS
// =============================================================================

// CreateTrip stores an itinerary document. POST /api/trips
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	it, err := factory.ParseItinerary(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid itinerary", err)
		return
	}

	rec, err := h.Store.SaveTrip(r.Context(), sqlite.TripRecord{
		ReportID:      it.ReportID,
		TripNumber:    it.TripInfo.TripNumber,
		Year:          it.Year,
		ItineraryJSON: string(raw),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(rec))
}

// ListTrips returns all stored itineraries. GET /api/trips
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListTrips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list trips", err)
		return
	}

	dtos := make([]TripDTO, len(records))
	for i, rec := range records {
		dtos[i] = toTripDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTrip returns one stored itinerary document. GET /api/trips/{id}
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get trip", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Trip not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(rec.ItineraryJSON))
}

// ComputeTripPerDiem computes and persists a per-diem report for a stored
// trip, using the settings named by ?rates= or the default.
// POST /api/trips/{id}/perdiem
func (h *Handler) ComputeTripPerDiem(w http.ResponseWriter, r *http.Request) {
	it, tripID, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	cfg, ok := h.loadRates(w, r)
	if !ok {
		return
	}

	report, err := perdiem.ComputeReport(it, cfg)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	h.persistReport(w, r, tripID, sqlite.ReportPerDiem, report)
}

// ComputeTripTimesheet computes and persists timesheet rows for a stored
// trip. POST /api/trips/{id}/timesheet
func (h *Handler) ComputeTripTimesheet(w http.ResponseWriter, r *http.Request) {
	it, tripID, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	report, err := timesheet.Build(it)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	h.persistReport(w, r, tripID, sqlite.ReportTimesheet, report)
}

// ListTripReports returns all persisted reports for a trip.
// GET /api/trips/{id}/reports
func (h *Handler) ListTripReports(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	records, err := h.Store.ListReports(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	dtos := make([]ReportRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toReportRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RATE SETTINGS
// =============================================================================

// CreateRateConfig validates and stores a rate settings document.
// POST /api/rates
func (h *Handler) CreateRateConfig(w http.ResponseWriter, r *http.Request) {
	var req CreateRateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := factory.ParseRateConfiguration(req.Config); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate settings", err)
		return
	}

	rec, err := h.Store.SaveRateConfig(r.Context(), sqlite.RateConfigRecord{
		Name:       req.Name,
		ConfigJSON: string(req.Config),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store rate settings", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRateConfigDTO(rec))
}

// ListRateConfigs returns all stored settings documents. GET /api/rates
func (h *Handler) ListRateConfigs(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRateConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rate settings", err)
		return
	}

	dtos := make([]RateConfigDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRateConfigDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRateConfig returns one stored settings document. GET /api/rates/{id}
func (h *Handler) GetRateConfig(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRateConfig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rate settings", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rate settings not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(rec.ConfigJSON))
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// loadTrip fetches and parses the stored itinerary named by {id}.
func (h *Handler) loadTrip(w http.ResponseWriter, r *http.Request) (*trip.Itinerary, string, bool) {
	tripID := chi.URLParam(r, "id")
	rec, err := h.Store.GetTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get trip", err)
		return nil, "", false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Trip not found", nil)
		return nil, "", false
	}

	it, err := factory.ParseItinerary([]byte(rec.ItineraryJSON))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored itinerary is invalid", err)
		return nil, "", false
	}
	return it, tripID, true
}

// loadRates resolves the settings document for a stored-trip computation:
// ?rates=<id> wins, then the configured default.
func (h *Handler) loadRates(w http.ResponseWriter, r *http.Request) (*perdiem.RateConfiguration, bool) {
	configID := r.URL.Query().Get("rates")
	if configID == "" {
		configID = h.defaultRates
	}
	if configID == "" {
		writeError(w, http.StatusBadRequest, "No rate settings specified and no default configured", nil)
		return nil, false
	}

	rec, err := h.Store.GetRateConfig(r.Context(), configID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rate settings", err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rate settings not found", nil)
		return nil, false
	}

	cfg, err := factory.ParseRateConfiguration([]byte(rec.ConfigJSON))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored rate settings are invalid", err)
		return nil, false
	}
	return cfg, true
}

// persistReport stores the computed payload and returns it to the caller.
func (h *Handler) persistReport(w http.ResponseWriter, r *http.Request, tripID string, kind sqlite.ReportKind, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize report", err)
		return
	}

	rec, err := h.Store.SaveReport(r.Context(), sqlite.ReportRecord{
		TripID:      tripID,
		Kind:        kind,
		PayloadJSON: string(body),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store report", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportRecordDTO(rec))
}

// writeComputeError maps engine failures to HTTP statuses.
func writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case trip.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Itinerary not computable", err)
	case perdiem.IsConfigError(err):
		writeError(w, http.StatusUnprocessableEntity, "Incomplete rate configuration", err)
	default:
		writeError(w, http.StatusInternalServerError, "Computation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
