// Package cache provides in-process caching of registry lookups.
//
// Entries live only as long as the process: a single check run (or a
// long-running server) reuses a lookup for the same package, but nothing is
// persisted between invocations.
//
// Two implementations are provided:
//   - [MemoryCache]: bounded LRU with a fixed time-to-live
//   - [NullCache]: never stores anything
package cache

import (
	"context"
	"time"
)

const (
	// DefaultSize is the default number of entries kept by a MemoryCache.
	DefaultSize = 4096

	// DefaultTTL is how long a cached registry lookup stays fresh.
	DefaultTTL = 10 * time.Minute
)

// Cache stores opaque byte payloads by key.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Key builds a namespaced cache key, e.g. Key("npm", "express") = "npm:express".
func Key(namespace, name string) string {
	return namespace + ":" + name
}
