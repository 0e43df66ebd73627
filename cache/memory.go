package cache

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache keeps entries in-process. Expired entries are dropped lazily on
// read. There is no per-key locking: two concurrent readers missing the same
// key may both compute and write it, which is fine since values are
// idempotent for a fixed input (last write wins).
type MemoryCache struct {
	entries cmap.ConcurrentMap[string, memoryEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache takes the clock as a parameter so tests can advance it.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: cmap.New[memoryEntry](),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	c.entries.Set(key, memoryEntry{value: value, expiresAt: c.now().Add(c.ttl)})
}

func (c *MemoryCache) Clear(_ context.Context) {
	c.entries.Clear()
}
