package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sintatools/journalharvest/internal/model"
)

// HarvestDB provides SQLite-based storage for harvest run history.
// It manages connection pooling and provides methods for recording and
// querying runs.
//
// Design decision: We use a single database file for all runs rather than
// one file per run. This keeps history queries trivial and makes
// backup/restore a single-file operation.
type HarvestDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HarvestDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HarvestDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HarvestDB, error) {
	dbPath := filepath.Join(dbDir, "journalharvest.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent access.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HarvestDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HarvestDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HarvestDB) createTables() error {
	schema := `
	-- One row per harvest run with the final statistics as JSON.
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		source TEXT NOT NULL,
		pages INTEGER NOT NULL,
		records INTEGER NOT NULL,
		stats_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);

	-- Capture metadata per run. The markup itself lives in the archive.
	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		sequence INTEGER NOT NULL,
		captured_at DATETIME NOT NULL,
		bytes INTEGER NOT NULL,
		UNIQUE(run_id, sequence)
	);

	CREATE INDEX IF NOT EXISTS idx_captures_run ON captures(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored harvest run summary.
type RunRecord struct {
	ID         string               `json:"id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Source     string               `json:"source"`
	Pages      int                  `json:"pages"`
	Records    int                  `json:"records"`
	Stats      *model.RunStatistics `json:"stats,omitempty"`
}

// SaveRun records a completed run and its capture metadata.
func (hdb *HarvestDB) SaveRun(ctx context.Context, run *model.HarvestRun) error {
	stats := run.Stats
	if stats == nil {
		stats = model.NewRunStatistics()
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to serialize statistics: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, source, pages, records, stats_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID.String(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.SourceFolder,
		len(run.Captures),
		len(run.Records),
		string(statsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, capture := range run.Captures {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO captures (run_id, sequence, captured_at, bytes)
		VALUES (?, ?, ?, ?)
		`,
			run.ID.String(),
			capture.Sequence,
			capture.CapturedAt.UTC().Format(time.RFC3339Nano),
			len(capture.Markup),
		)
		if err != nil {
			return fmt.Errorf("failed to insert capture %d: %w", capture.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a stored run by ID. Returns nil when the run is unknown.
func (hdb *HarvestDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, source, pages, records, stats_json
	FROM runs
	WHERE id = ?
	`

	rec, err := hdb.scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns all runs.
func (hdb *HarvestDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, source, pages, records, stats_json
	FROM runs
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		rec, err := hdb.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// CaptureMeta is stored capture metadata.
type CaptureMeta struct {
	Sequence   int       `json:"sequence"`
	CapturedAt time.Time `json:"captured_at"`
	Bytes      int       `json:"bytes"`
}

// GetCaptures returns the capture metadata for a run, in sequence order.
func (hdb *HarvestDB) GetCaptures(ctx context.Context, runID string) ([]CaptureMeta, error) {
	query := `
	SELECT sequence, captured_at, bytes
	FROM captures
	WHERE run_id = ?
	ORDER BY sequence
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get captures: %w", err)
	}
	defer rows.Close()

	var results []CaptureMeta
	for rows.Next() {
		var meta CaptureMeta
		var capturedAt string
		if err := rows.Scan(&meta.Sequence, &capturedAt, &meta.Bytes); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		meta.CapturedAt = parseTimestamp(capturedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans one runs row into a RunRecord.
func (hdb *HarvestDB) scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var startedAt, finishedAt, statsJSON string

	if err := row.Scan(
		&rec.ID,
		&startedAt,
		&finishedAt,
		&rec.Source,
		&rec.Pages,
		&rec.Records,
		&statsJSON,
	); err != nil {
		return nil, err
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)

	var stats model.RunStatistics
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return nil, fmt.Errorf("failed to parse statistics: %w", err)
	}
	rec.Stats = &stats

	return &rec, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
