package kv

import "errors"

var (
	// ErrQuotaExceeded is returned by Set when a write would push the
	// backend past its storage quota. Callers must surface it; a dropped
	// write here means silently lost user data.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is the persistent key-value contract all session and per-user state
// goes through. Values are serialized structured data, typically JSON.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set stores or replaces the value. Returns ErrQuotaExceeded when the
	// write would exceed the backend quota.
	Set(key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
