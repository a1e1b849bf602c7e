/*
Package sqlite provides SQLite-backed persistence for itineraries, rate
configurations, and computed reports.

PURPOSE:
  The computation itself is a pure pass over in-memory data; this package
  only keeps the documents around - submitted itineraries, the rate
  settings in force, and the reports computed from them - as JSON blobs
  with a thin metadata envelope.

KEY TABLES:
  trips:        Stored itinerary documents (one per travel report)
  rate_configs: Rate settings documents, referenced by report computation
  reports:      Computed per-diem/timesheet payloads, linked to a trip

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; a single process owns the file.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so report reads don't
  block itinerary writes.

USAGE:
  store, err := sqlite.New("./data/trips.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: The only consumer
  - factory/: Parses the JSON blobs stored here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// TripRecord is a stored itinerary document.
type TripRecord struct {
	ID            string
	ReportID      string
	TripNumber    int
	Year          int
	ItineraryJSON string
	CreatedAt     time.Time
}

// RateConfigRecord is a stored rate settings document.
type RateConfigRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	CreatedAt  time.Time
}

// ReportKind distinguishes the two computed payloads.
type ReportKind string

const (
	ReportPerDiem   ReportKind = "perdiem"
	ReportTimesheet ReportKind = "timesheet"
)

// ReportRecord is a computed report payload linked to a trip.
type ReportRecord struct {
	ID          string
	TripID      string
	Kind        ReportKind
	PayloadJSON string
	CreatedAt   time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Stored itinerary documents
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		report_id TEXT NOT NULL,
		trip_number INTEGER NOT NULL DEFAULT 0,
		year INTEGER NOT NULL,
		itinerary_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trips_report_id ON trips(report_id);

	-- Rate settings documents
	CREATE TABLE IF NOT EXISTS rate_configs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Computed report payloads
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_trip_kind ON reports(trip_id, kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRIPS
// =============================================================================

// SaveTrip stores an itinerary document. A missing ID is generated.
func (s *Store) SaveTrip(ctx context.Context, rec TripRecord) (TripRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trips (id, report_id, trip_number, year, itinerary_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ReportID, rec.TripNumber, rec.Year, rec.ItineraryJSON,
		rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return TripRecord{}, fmt.Errorf("save trip: %w", err)
	}
	return rec, nil
}

// GetTrip fetches one stored itinerary; nil when not found.
func (s *Store) GetTrip(ctx context.Context, id string) (*TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, report_id, trip_number, year, itinerary_json, created_at
		FROM trips WHERE id = ?`, id)

	rec, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return &rec, nil
}

// ListTrips returns all stored itineraries, newest first.
func (s *Store) ListTrips(ctx context.Context) ([]TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, trip_number, year, itinerary_json, created_at
		FROM trips ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var records []TripRecord
	for rows.Next() {
		rec, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// RATE CONFIGS
// =============================================================================

// SaveRateConfig stores a rate settings document. A missing ID is generated.
func (s *Store) SaveRateConfig(ctx context.Context, rec RateConfigRecord) (RateConfigRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_configs (id, name, config_json, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.ConfigJSON, rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return RateConfigRecord{}, fmt.Errorf("save rate config: %w", err)
	}
	return rec, nil
}

// GetRateConfig fetches one stored settings document; nil when not found.
func (s *Store) GetRateConfig(ctx context.Context, id string) (*RateConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, config_json, created_at
		FROM rate_configs WHERE id = ?`, id)

	var rec RateConfigRecord
	var createdAt string
	err := row.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate config: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListRateConfigs returns all stored settings documents, newest first.
func (s *Store) ListRateConfigs(ctx context.Context) ([]RateConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, config_json, created_at
		FROM rate_configs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rate configs: %w", err)
	}
	defer rows.Close()

	var records []RateConfigRecord
	for rows.Next() {
		var rec RateConfigRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("list rate configs: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// REPORTS
// =============================================================================

// SaveReport stores a computed report payload. A missing ID is generated.
func (s *Store) SaveReport(ctx context.Context, rec ReportRecord) (ReportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, trip_id, kind, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.TripID, rec.Kind, rec.PayloadJSON, rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return ReportRecord{}, fmt.Errorf("save report: %w", err)
	}
	return rec, nil
}

// ListReports returns all computed reports for a trip, newest first.
func (s *Store) ListReports(ctx context.Context, tripID string) ([]ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trip_id, kind, payload_json, created_at
		FROM reports WHERE trip_id = ? ORDER BY created_at DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.TripID, &rec.Kind, &rec.PayloadJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (TripRecord, error) {
	var rec TripRecord
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.ReportID, &rec.TripNumber, &rec.Year,
		&rec.ItineraryJSON, &createdAt); err != nil {
		return TripRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}
