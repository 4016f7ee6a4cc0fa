package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/matzehuels/deprep/pkg/observability"
)

// MemoryCache is a bounded, expiring in-memory cache. It is safe for
// concurrent use.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates a MemoryCache holding at most size entries, each
// expiring ttl after it was set. Non-positive arguments select
// [DefaultSize] and [DefaultTTL].
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the cached data for key.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := c.lru.Get(key)
	if ok {
		observability.Cache().OnCacheHit(ctx, namespace(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, namespace(key))
	}
	return data, ok, nil
}

// Set stores a copy of data under key.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	c.lru.Add(key, buf)
	observability.Cache().OnCacheSet(ctx, namespace(key), len(buf))
	return nil
}

// Delete removes key from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of entries currently held, including expired
// entries that have not been evicted yet.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

func namespace(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}

var _ Cache = (*MemoryCache)(nil)
