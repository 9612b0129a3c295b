package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLStore persists the session cache in a SQLite database.
type SQLStore struct {
	db *sql.DB
}

var _ KV = (*SQLStore)(nil)

// OpenSQL opens (or creates) the session database and runs migrations.
func OpenSQL(dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS session_cache (
		key        TEXT NOT NULL PRIMARY KEY CHECK(length(key) > 0),
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Get returns the value for key, or ErrNotFound.
func (s *SQLStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM session_cache WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", key, err)
	}
	return value, nil
}

// Set writes the value for key, replacing any previous one.
func (s *SQLStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO session_cache (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *SQLStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM session_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("store: remove %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key.
func (s *SQLStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session_cache"); err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

// Fallback always reports false for the primary store.
func (s *SQLStore) Fallback() bool { return false }

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
