// Package cache provides the ephemeral in-process price tier: a TTL cache
// consulted before the durable price cache to collapse bursts of
// near-simultaneous reads. It is a pure latency optimization and is never
// the sole source of truth; a process restart loses nothing because the
// durable tier is authoritative.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an in-memory price stays valid before reads fall
// through to the durable tier again.
const DefaultTTL = 30 * time.Second

// MemoryPriceCache holds recently fetched prices with TTL eviction.
// Expired entries are dropped lazily on read by the underlying cache.
type MemoryPriceCache struct {
	entries *gocache.Cache
}

// NewMemoryPriceCache creates a cache with the given TTL. A non-positive
// ttl selects DefaultTTL. The cache is constructed once at startup and
// injected wherever it is needed, so tests can use isolated instances.
func NewMemoryPriceCache(ttl time.Duration) *MemoryPriceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryPriceCache{
		entries: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached price for a code, or false once the entry has
// expired or was never set.
func (c *MemoryPriceCache) Get(code string) (float64, bool) {
	v, ok := c.entries.Get(code)
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// Set stores a price under the cache's TTL.
func (c *MemoryPriceCache) Set(code string, price float64) {
	c.entries.SetDefault(code, price)
}

// SetBatch stores all prices in the map under the cache's TTL.
func (c *MemoryPriceCache) SetBatch(prices map[string]float64) {
	for code, price := range prices {
		c.entries.SetDefault(code, price)
	}
}
