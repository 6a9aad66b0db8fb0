// Package cache provides the durable key/value store that memoizes remote
// record lookups. Records referenced by a settled payout are immutable, so
// entries are written once and never invalidated; the store only ever
// grows, which is acceptable for a single bounded payment account.
package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed record cache. Values are the JSON encoding of
// the domain record, keyed by the remote record ID.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at the given path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS records (
		id         TEXT PRIMARY KEY,
		fetched_ts INTEGER NOT NULL,
		record     BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached record for id, or ok=false on a miss.
func (s *Store) Get(id string) ([]byte, bool, error) {
	var record []byte
	err := s.db.QueryRow(`SELECT record FROM records WHERE id = ?`, id).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", id, err)
	}
	return record, true, nil
}

// Put stores the record under id, stamping the fetch time. Re-putting an
// existing id overwrites it; callers only do that when re-fetching the same
// immutable record, so the value is unchanged in practice.
func (s *Store) Put(id string, record []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO records (id, fetched_ts, record) VALUES (?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), record,
	)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", id, err)
	}
	return nil
}

// Len reports the number of cached records. Used by the inspect command.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache count: %w", err)
	}
	return n, nil
}
