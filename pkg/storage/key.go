package storage

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a cached artifact
type Key uint64

// MakeKey hashes the parts into a key. Parts are joined with a NUL byte so
// ("ab", "c") and ("a", "bc") produce different keys.
func MakeKey(parts ...string) Key {
	return Key(xxhash.Sum64String(strings.Join(parts, "\x00")))
}

// Bytes returns the big-endian encoding used by on-disk backends
func (k Key) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k))
	return b
}

