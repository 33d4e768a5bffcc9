// Package cache provides the in-process result cache for part searches,
// keyed by normalized query and expired lazily by TTL.
package cache

import "github.com/briangreenhill/partsgpt/internal/parts"

// Reader defines the interface for reading cache entries
type Reader interface {
	// Get returns the stored parts and true if the key is present and fresh.
	// Stale entries are reported as absent but are not removed.
	Get(key string) ([]parts.Part, bool)
}

// Writer defines the interface for writing cache entries
type Writer interface {
	// Put stores value under key, replacing any previous entry.
	Put(key string, value []parts.Part)
}

// ReadWriter combines both cache operations
type ReadWriter interface {
	Reader
	Writer
}
