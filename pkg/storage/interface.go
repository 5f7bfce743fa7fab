package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no entry
var ErrNotFound = errors.New("storage: key not found")

// Storage is a byte cache for rendered dashboard charts.
// Implementations: memory (testing, small deployments), badger (default).
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key Key) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key Key, value []byte) error

	// Stats returns cache statistics
	Stats(ctx context.Context) (*Stats, error)

	// Close cleanly shuts down the storage
	Close() error
}

// Stats provides cache usage info
type Stats struct {
	// Number of cached entries
	Entries uint64 `json:"entries"`

	// Approximate bytes held
	SizeBytes uint64 `json:"size_bytes"`

	// Backend name ("memory", "badger")
	Backend string `json:"backend"`
}
