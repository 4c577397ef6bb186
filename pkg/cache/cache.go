// Package cache stores rendered chart output keyed by its inputs.
//
// The serve command consults a Cache before laying out a chart: identical
// chart definitions rendered to the same format produce identical bytes, so
// a hit skips config parsing, layout and rendering entirely.
//
// Three implementations are provided:
//
//   - [MemoryCache]: bounded in-process map, the serve default
//   - [FileCache]: one file per entry under a directory, survives restarts
//   - [NullCache]: stores nothing
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiry.
// A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key returns the cache key for chart rendered as format.
func Key(format string, chart []byte) string {
	return "render:" + format + ":" + Hash(chart)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func expired(at time.Time) bool {
	return !at.IsZero() && time.Now().After(at)
}
