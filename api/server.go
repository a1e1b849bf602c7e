/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for tooling

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Stateless computation
		r.Route("/compute", func(r chi.Router) {
			r.Post("/perdiem", h.ComputePerDiem)
			r.Post("/timesheet", h.ComputeTimesheet)
		})

		// Trip routes
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.ListTrips)
			r.Post("/", h.CreateTrip)
			r.Get("/{id}", h.GetTrip)
			r.Post("/{id}/perdiem", h.ComputeTripPerDiem)
			r.Post("/{id}/timesheet", h.ComputeTripTimesheet)
			r.Get("/{id}/reports", h.ListTripReports)
		})

		// Rate settings routes
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRateConfigs)
			r.Post("/", h.CreateRateConfig)
			r.Get("/{id}", h.GetRateConfig)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "trip-engine",
			"api":     "/api",
		})
	})

	return r
}
