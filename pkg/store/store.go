// Package store is the client's local session cache: a small key/value
// store holding the sealed credential token, user and permission set.
//
// The primary backend is SQLite. When it cannot be opened the cache degrades
// to an in-memory store for the remainder of the run; callers can see that
// happened through Fallback() and warn the user that the session will not
// survive a restart.
package store

import "errors"

// Well-known cache keys.
const (
	KeyToken    = "ettur_token"
	KeyUser     = "ettur_user"
	KeyPermisos = "ettur_permisos"
)

var ErrNotFound = errors.New("store: key not found")

// KV is the persistence contract the session layer depends on.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set writes the value for key, replacing any previous one.
	Set(key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Clear deletes every key.
	Clear() error
	// Fallback reports whether this store is the volatile in-memory
	// degradation of an unavailable primary store.
	Fallback() bool
	Close() error
}

// Open returns the SQLite-backed store at dbPath, or the in-memory fallback
// when the database cannot be opened. The returned error is the open failure
// (nil when the primary store is healthy); the store is usable either way.
func Open(dbPath string) (KV, error) {
	s, err := OpenSQL(dbPath)
	if err != nil {
		return NewMemory(true), err
	}
	return s, nil
}
