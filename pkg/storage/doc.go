/*
Package storage provides the pluggable cache that holds rendered dashboard
charts (SVG and PNG).

# Why a cache?

The dataset is loaded once and never changes while the process runs, so a
chart for a given dataset fingerprint, quantity, range and size is always the
same bytes. Rendering
one with go-chart costs a few milliseconds; serving it from the cache costs
microseconds. Entries are never invalidated: the fingerprint hashes every loaded bucket,
so changed data produces new keys.

# Backends

All backends implement the Storage interface:

	type Storage interface {
	    Get(ctx context.Context, key Key) ([]byte, error)
	    Put(ctx context.Context, key Key, value []byte) error
	    Stats(ctx context.Context) (*Stats, error)
	    Close() error
	}

  - memory: map guarded by a RWMutex
  - badger: BadgerDB, in-memory by default, on disk when a path is given

# Keys

Keys are xxhash digests of the artifact description:

	key := storage.MakeKey("chart", fingerprint, "co2", "24h", "svg", "900", "320")

Badger stores them as 8 big-endian bytes.

# Usage Example

	store, err := badger.New(badger.Config{InMemory: true, MaxMemoryMB: 16})
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	if data, err := store.Get(ctx, key); err == nil {
	    return data
	}
	data := render()
	store.Put(ctx, key, data)
*/
package storage
