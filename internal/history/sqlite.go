// Package history persists build results in a local SQLite database so watch
// mode keeps an inspectable record across restarts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// BuildRecord is one persisted build outcome.
type BuildRecord struct {
	BuildID    string
	Timestamp  time.Time
	Success    bool
	FileCount  int
	TotalSize  int64
	TokenCount int
	DurationMS int64
	OutputPath string
	Error      string
}

// Store persists build records in SQLite.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		success INTEGER NOT NULL,
		file_count INTEGER NOT NULL,
		total_size INTEGER NOT NULL,
		token_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		output_path TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one build record.
func (s *Store) Append(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, timestamp, success, file_count, total_size, token_count, duration_ms, output_path, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BuildID, ts.Unix(), boolToInt(rec.Success), rec.FileCount, rec.TotalSize,
		rec.TokenCount, rec.DurationMS, rec.OutputPath, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns up to n build records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, timestamp, success, file_count, total_size, token_count, duration_ms, output_path, error
		 FROM builds ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var ts int64
		var success int
		if err := rows.Scan(&rec.BuildID, &ts, &success, &rec.FileCount, &rec.TotalSize,
			&rec.TokenCount, &rec.DurationMS, &rec.OutputPath, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Success = success != 0
		records = append(records, rec)
	}
	return records, rows.Err()
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
