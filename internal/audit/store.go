// Package audit is a write-only diagnostic trail of trigger firings,
// timer expiry, and component lifecycle events — never read back to
// reconstruct the dataflow graph, only for post-hoc troubleshooting.
// Modeled as an append-only store, using the pure-Go modernc.org/sqlite
// driver so the daemon cross-compiles cleanly to ARM without CGo.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one audited event.
type Entry struct {
	Timestamp time.Time
	Source    string // "manager", "connection", "trigger", "mqtt", ...
	Kind      string // "ready", "poll", "transfer", "fired", "connected", ...
	Component string
	Detail    string
}

// Store is an append-only SQLite trail. All public methods are safe for
// concurrent use; SQLite itself serializes writes.
type Store struct {
	db *sql.DB
}

// Open creates or opens the trail database at path, migrating its schema
// on first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: migrate schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS entries (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		source    TEXT NOT NULL,
		kind      TEXT NOT NULL,
		component TEXT NOT NULL,
		detail    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_entries_component ON entries(component);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one entry; Timestamp defaults to time.Now() if zero.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (timestamp, source, kind, component, detail) VALUES (?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Source, e.Kind, e.Component, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}
	return nil
}

// Recent returns up to limit of the most recently recorded entries, newest
// first. No dataflow logic reads the trail back.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, source, kind, component, detail FROM entries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&ts, &e.Source, &e.Kind, &e.Component, &e.Detail); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
