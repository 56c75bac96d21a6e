package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ResultCache memoizes geodata lookups keyed by normalized query
// parameters. Entries expire lazily on read; a stale read behaves as a
// miss and the caller refreshes and overwrites the entry.
type ResultCache interface {
	Get(key string) ([]types.Candidate, bool)
	Set(key string, value []types.Candidate, ttl time.Duration)
	Expire(key string)
}

type entry struct {
	value     []types.Candidate
	expiresAt time.Time
}

// MemoryCache is the in-process ResultCache. Unbounded; the process
// lifetime bounds growth. The clock is injectable for tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ ResultCache = (*MemoryCache)(nil)

type Option func(*MemoryCache)

// WithClock overrides the cache's notion of now.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		c.now = now
	}
}

func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(key string) ([]types.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	// Stale entries stay in place until the caller overwrites them.
	if !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(key string, value []types.Candidate, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *MemoryCache) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// QueryKey builds a cache key from a free-text query.
func QueryKey(prefix, query string) string {
	return fmt.Sprintf("%s:%s", prefix, strings.ToLower(strings.TrimSpace(query)))
}

// CoordKey builds a cache key from coordinates rounded to 4 decimal
// places (~11 m), so jittery client coordinates collapse onto one entry.
func CoordKey(prefix string, lat, lon float64) string {
	return fmt.Sprintf("%s:%.4f:%.4f", prefix, lat, lon)
}

// NearbyKey combines coordinates with a category filter.
func NearbyKey(prefix string, lat, lon float64, category string) string {
	return fmt.Sprintf("%s:%.4f:%.4f:%s", prefix, lat, lon, strings.ToLower(strings.TrimSpace(category)))
}
