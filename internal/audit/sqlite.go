// Package audit persists a log of orchestrated queries for operational
// inspection. Datasets themselves stay in flat files; this is telemetry about
// queries, not a data store.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/pipeline"
)

// Store is a SQLite-backed query log.
type Store struct {
	db *sql.DB
}

var _ pipeline.Recorder = (*Store)(nil)

// Open creates or opens the audit database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			data_type TEXT NOT NULL,
			total_results INTEGER NOT NULL,
			returned_results INTEGER NOT NULL,
			voice INTEGER NOT NULL DEFAULT 0,
			aggregated INTEGER NOT NULL DEFAULT 0,
			duration_ns INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_source ON queries(source)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_created ON queries(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Entry is one logged query.
type Entry struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	DataType        domain.DataType `json:"data_type"`
	TotalResults    int             `json:"total_results"`
	ReturnedResults int             `json:"returned_results"`
	Voice           bool            `json:"voice"`
	Aggregated      bool            `json:"aggregated"`
	DurationNS      int64           `json:"duration_ns"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RecordQuery implements pipeline.Recorder.
func (s *Store) RecordQuery(ctx context.Context, rec pipeline.QueryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, source, data_type, total_results, returned_results, voice, aggregated, duration_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		rec.Source,
		string(rec.DataType),
		rec.TotalResults,
		rec.ReturnedResults,
		boolToInt(rec.Voice),
		boolToInt(rec.Aggregated),
		rec.Duration.Nanoseconds(),
		time.Now().UTC(),
	)
	return err
}

// RecentQueries returns up to limit entries, newest first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, data_type, total_results, returned_results, voice, aggregated, duration_ns, created_at
		 FROM queries ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			voice, aggregated int
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.DataType, &e.TotalResults, &e.ReturnedResults, &voice, &aggregated, &e.DurationNS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Voice = voice != 0
		e.Aggregated = aggregated != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
