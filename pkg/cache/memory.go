package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryEntries bounds a MemoryCache created with a non-positive size.
const DefaultMemoryEntries = 256

// MemoryCache keeps up to a fixed number of entries in memory. When full,
// the oldest entry is evicted.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]memoryEntry
	order   []string // insertion order, oldest first
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries entries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{max: maxEntries, entries: make(map[string]memoryEntry)}
}

// Get returns the entry for key unless it is missing or expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if expired(e.expiresAt) {
		c.remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores data under key, evicting the oldest entry when full.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for len(c.order) >= c.max {
		c.remove(c.order[0])
	}
	c.entries[key] = memoryEntry{data: data, expiresAt: expiry(ttl)}
	c.order = append(c.order, key)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	c.order = nil
	return nil
}

// remove must be called with mu held.
func (c *MemoryCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

var _ Cache = (*MemoryCache)(nil)
