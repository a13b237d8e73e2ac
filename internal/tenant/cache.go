package tenant

import (
	"context"
	"sync"
	"time"
)

// CachedSource wraps a Source with a TTL-based cache keyed by query.
//
// Within a single refresh cycle the list view, the status bar and a
// debounced search can all ask for the same query; the cache makes that one
// read. Invalidate is called by the file watcher so edits are never masked
// for longer than one event.
//
// The cache is bounded by maxCacheEntries to prevent unbounded memory
// growth across long-running sessions.
type CachedSource struct {
	inner Source
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// maxCacheEntries caps the number of entries in the cache. When exceeded,
// expired entries are evicted and, failing that, the cache is flushed.
const maxCacheEntries = 64

type cacheEntry struct {
	items  []Tenant
	err    error
	expiry time.Time
}

// Compile-time check.
var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps inner with a TTL cache. A non-positive ttl disables
// caching.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cacheEntry, 16),
	}
}

// Invalidate clears all cached entries.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry, 16)
	c.mu.Unlock()
}

func (c *CachedSource) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.cache[key]
	if !found || c.now().After(e.expiry) {
		return cacheEntry{}, false
	}
	return e, true
}

func (c *CachedSource) set(key string, items []Tenant, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cache) >= maxCacheEntries {
		now := c.now()
		for k, e := range c.cache {
			if now.After(e.expiry) {
				delete(c.cache, k)
			}
		}
		if len(c.cache) >= maxCacheEntries {
			c.cache = make(map[string]cacheEntry, 16)
		}
	}
	c.cache[key] = cacheEntry{items: items, err: err, expiry: c.now().Add(c.ttl)}
}

// Fetch returns the cached result for q, or delegates and caches. Errors are
// not cached so a transient failure is retried on the next call.
func (c *CachedSource) Fetch(ctx context.Context, q Query) ([]Tenant, error) {
	if c.ttl <= 0 {
		return c.inner.Fetch(ctx, q)
	}
	key := q.Key()
	if e, ok := c.get(key); ok {
		return cloneTenants(e.items), e.err
	}
	items, err := c.inner.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	c.set(key, cloneTenants(items), nil)
	return items, nil
}

// Get delegates to the inner source (not cached).
func (c *CachedSource) Get(ctx context.Context, id string) (Tenant, error) {
	return c.inner.Get(ctx, id)
}

func cloneTenants(items []Tenant) []Tenant {
	if items == nil {
		return nil
	}
	dup := make([]Tenant, len(items))
	copy(dup, items)
	return dup
}
