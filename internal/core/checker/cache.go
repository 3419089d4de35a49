package checker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/namelens/namesmith/internal/core"
)

// DefaultCacheTTL is how long a domain check stays fresh.
const DefaultCacheTTL = 30 * time.Minute

// Cache stores domain checks keyed by lowercased domain.
type Cache interface {
	Get(ctx context.Context, domain string) (*core.DomainCheck, bool)
	Set(ctx context.Context, domain string, check *core.DomainCheck) error
	// Sweep removes expired entries and returns how many were dropped.
	Sweep(ctx context.Context) (int, error)
}

// MemoryCache is an in-process Cache. Expired entries are dropped lazily on
// read and in bulk by Sweep.
type MemoryCache struct {
	TTL   time.Duration
	Clock func() time.Time

	mu      sync.Mutex
	entries map[string]core.CacheEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{TTL: ttl, entries: map[string]core.CacheEntry{}}
}

func (c *MemoryCache) Get(_ context.Context, domain string) (*core.DomainCheck, bool) {
	key := cacheKey(domain)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.Expired(c.now(), c.ttl()) {
		delete(c.entries, key)
		return nil, false
	}
	check := *entry.Data
	return &check, true
}

func (c *MemoryCache) Set(_ context.Context, domain string, check *core.DomainCheck) error {
	if check == nil {
		return nil
	}
	key := cacheKey(domain)
	stored := *check

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]core.CacheEntry{}
	}
	c.entries[key] = core.CacheEntry{Domain: key, Data: &stored, Timestamp: c.now()}
	return nil
}

func (c *MemoryCache) Sweep(context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.Expired(now, c.ttl()) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries, fresh or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultCacheTTL
}

func (c *MemoryCache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

func cacheKey(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
