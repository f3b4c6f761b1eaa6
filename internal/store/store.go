// Package store persists admitted run records in an append-only SQLite
// table and serves the reduced rows the aggregation path consumes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/gobx/statscollector/internal/runstats"
)

const (
	driverName = "sqlite"
	dirPerm    = 0o750

	// timeLayout is ISO-8601 UTC with a fixed-width fraction so the TEXT
	// column sorts lexicographically in timestamp order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    received_at TEXT NOT NULL,
    device_id TEXT NOT NULL,
    hw_model TEXT,
    gpu_name TEXT,
    gpu_backend TEXT,
    backend TEXT NOT NULL,
    os_version TEXT NOT NULL,
    app_version TEXT NOT NULL,
    batch INTEGER,
    inflight INTEGER,
    elapsed_sec REAL NOT NULL,
    total_count INTEGER NOT NULL,
    total_rate REAL NOT NULL,
    cpu_rate REAL NOT NULL,
    gpu_rate REAL NOT NULL,
    cpu_avg REAL NOT NULL,
    gpu_avg REAL NOT NULL,
    payload_json TEXT NOT NULL
);`

const insertSQL = `
INSERT INTO runs (
    received_at, device_id, hw_model, gpu_name, gpu_backend, backend,
    os_version, app_version, batch, inflight, elapsed_sec, total_count,
    total_rate, cpu_rate, gpu_rate, cpu_avg, gpu_avg, payload_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const recentSQL = `
SELECT received_at, app_version, total_rate, total_count, elapsed_sec
FROM runs
ORDER BY received_at DESC
LIMIT ?`

// Store is a handle to one runs database. It is safe for concurrent use;
// every write is a single atomic append.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the runs database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		mkErr := os.MkdirAll(dir, dirPerm)
		if mkErr != nil {
			return nil, fmt.Errorf("create store directory: %w", mkErr)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	} {
		_, pragmaErr := db.Exec(pragma)
		if pragmaErr != nil {
			db.Close()

			return nil, fmt.Errorf("apply pragma: %w", pragmaErr)
		}
	}

	_, schemaErr := db.Exec(schemaSQL)
	if schemaErr != nil {
		db.Close()

		return nil, fmt.Errorf("create schema: %w", schemaErr)
	}

	return &Store{db: db}, nil
}

// InsertRun appends one admitted record, stamped with receivedAt, along
// with a verbatim JSON copy of the record for forward-compatible auditing.
func (s *Store) InsertRun(ctx context.Context, r *runstats.RunRecord, receivedAt time.Time) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode audit payload: %w", err)
	}

	_, execErr := s.db.ExecContext(ctx, insertSQL,
		receivedAt.UTC().Format(timeLayout),
		r.DeviceID,
		r.HWModel,
		r.GPUName,
		r.GPUBackend,
		r.Backend,
		r.OSVersion,
		r.AppVersion,
		r.Batch,
		r.Inflight,
		r.ElapsedSec,
		r.TotalCount,
		r.TotalRate,
		r.CPURate,
		r.GPURate,
		r.CPUAvg,
		r.GPUAvg,
		string(payload),
	)
	if execErr != nil {
		return fmt.Errorf("insert run: %w", execErr)
	}

	return nil
}

// RecentSamples returns up to limit most recent rows reduced to the sample
// projection, in storage order (most recent first). Callers re-sort.
func (s *Store) RecentSamples(ctx context.Context, limit int) ([]runstats.SampleRow, error) {
	rows, err := s.db.QueryContext(ctx, recentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []runstats.SampleRow

	for rows.Next() {
		var (
			receivedAt string
			row        runstats.SampleRow
		)

		scanErr := rows.Scan(&receivedAt, &row.AppVersion, &row.TotalRate, &row.TotalCount, &row.ElapsedSec)
		if scanErr != nil {
			return nil, fmt.Errorf("scan run row: %w", scanErr)
		}

		// RFC3339Nano parses both the fixed-width layout written here and
		// trimmed-fraction rows from older writers.
		ts, parseErr := time.Parse(time.RFC3339Nano, receivedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("parse received_at: %w", parseErr)
		}

		row.ReceivedAt = ts
		out = append(out, row)
	}

	rowsErr := rows.Err()
	if rowsErr != nil {
		return nil, fmt.Errorf("iterate run rows: %w", rowsErr)
	}

	return out, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("ping store: %w", err)
	}

	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}
