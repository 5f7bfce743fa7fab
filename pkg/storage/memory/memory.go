package memory

import (
	"context"
	"sync"

	"github.com/nicktill/envmon/pkg/storage"
)

// Storage keeps cache entries in a map. Data is lost on restart.
type Storage struct {
	entries map[storage.Key][]byte
	size    uint64
	mu      sync.RWMutex
}

// New creates an in-memory cache backend
func New() *Storage {
	return &Storage{
		entries: make(map[storage.Key][]byte),
	}
}

// Get returns a copy of the cached value
func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores a copy of value
func (s *Storage) Put(ctx context.Context, key storage.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.size -= uint64(len(old))
	}
	s.entries[key] = cp
	s.size += uint64(len(cp))
	return nil
}

// Stats returns entry count and held bytes
func (s *Storage) Stats(ctx context.Context) (*storage.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &storage.Stats{
		Entries:   uint64(len(s.entries)),
		SizeBytes: s.size,
		Backend:   "memory",
	}, nil
}

// Close is a no-op for memory storage
func (s *Storage) Close() error {
	return nil
}
