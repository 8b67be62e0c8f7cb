// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/place-finder/pkg/types"
)

const sqliteDBFile = "place-cache.db"

// SQLiteStore is the embedded persistent cache backend. Entries survive
// process restarts; expired rows are swept opportunistically on writes.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the cache database at dir/place-cache.db
// and creates the schema if it does not exist.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, sqliteDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS cache_entries (
		fingerprint TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for the fingerprint, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cache_entries WHERE fingerprint = ?`, fingerprint,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry types.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &entry, nil
}

// Set upserts the entry and sweeps rows whose TTL elapsed.
func (s *SQLiteStore) Set(ctx context.Context, entry types.CacheEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (fingerprint, payload, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET payload=excluded.payload, expires_at=excluded.expires_at`,
		entry.Fingerprint, string(payload), entry.ExpiresAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sweeping expired entries: %w", err)
	}
	return nil
}

// Delete removes the entry for the fingerprint.
func (s *SQLiteStore) Delete(ctx context.Context, fingerprint string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE fingerprint = ?`, fingerprint,
	); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
