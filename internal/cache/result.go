package cache

import (
	"sync"
	"time"

	"github.com/briangreenhill/partsgpt/internal/parts"
)

// DefaultTTL is how long a search result stays fresh.
const DefaultTTL = 24 * time.Hour

// Entry is a stored search result.
type Entry struct {
	Key      string
	Value    []parts.Part
	StoredAt time.Time
}

// ResultCache is a TTL map from normalized query to parts. Expiry is checked
// on read only; nothing is ever evicted.
type ResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry
}

type Option func(*ResultCache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResultCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) { c.now = now }
}

// NewResultCache creates an empty cache.
func NewResultCache(opts ...Option) *ResultCache {
	c := &ResultCache{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get implements Reader.
func (c *ResultCache) Get(key string) ([]parts.Part, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.StoredAt) >= c.ttl {
		return nil, false
	}
	return parts.Clone(e.Value), true
}

// Put implements Writer.
func (c *ResultCache) Put(key string, value []parts.Part) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{
		Key:      key,
		Value:    parts.Clone(value),
		StoredAt: c.now(),
	}
}

// Len reports how many entries are held, stale ones included.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}
