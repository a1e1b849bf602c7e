/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the travel report engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Optionally preload a rate settings file as the default
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: trips.db)
           Use ":memory:" for an in-memory database
  -rates   Path to a rate settings JSON file loaded at startup and used
           as the default for stored-trip computation (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and preloaded statutory rates
  ./server -db="./data/trips.db" -rates="./config/rates_2026.json"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/profisolv/trip-engine/api"
	"github.com/profisolv/trip-engine/factory"
	"github.com/profisolv/trip-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "trips.db", "SQLite database path")
	ratesPath := flag.String("rates", "", "rate settings JSON preloaded as default")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Preload default rate settings
	if *ratesPath != "" {
		configID, err := loadDefaultRates(store, *ratesPath)
		if err != nil {
			log.Fatalf("Failed to load rate settings from %s: %v", *ratesPath, err)
		}
		handler.SetDefaultRates(configID)
		log.Printf("Loaded default rate settings %s from %s", configID, *ratesPath)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadDefaultRates validates a settings file and stores it, returning the
// stored record's ID.
func loadDefaultRates(store *sqlite.Store, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if _, err := factory.ParseRateConfiguration(data); err != nil {
		return "", err
	}

	rec, err := store.SaveRateConfig(context.Background(), sqlite.RateConfigRecord{
		Name:       filepath.Base(path),
		ConfigJSON: string(data),
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
