package reconcile

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedDiff is one stored diff result.
type cachedDiff struct {
	result *DiffResult
	ids    [2]string
	built  time.Time
}

// DiffCache holds diff results keyed by the snapshot pair and options.
// Stored snapshots are immutable, so an entry only goes stale when one of
// its snapshots is deleted or the TTL runs out.
type DiffCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedDiff
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewDiffCache creates a cache. A zero TTL disables caching.
func NewDiffCache(ttl time.Duration) *DiffCache {
	return &DiffCache{
		entries: make(map[string]*cachedDiff),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey builds the cache key for a diff. The pair is order-insensitive
// because Diff orders its arguments by time.
func CacheKey(a, b string, opts DiffOptions) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b + "|" + opts.Key()
}

func (c *DiffCache) expired(e *cachedDiff) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// GetOrCompute returns the cached diff for the pair or builds it with fn.
// Concurrent callers for the same key share one build.
func (c *DiffCache) GetOrCompute(a, b string, opts DiffOptions, fn func() (*DiffResult, error)) (*DiffResult, error) {
	// The live inventory changes under us
	if a == LiveID || b == LiveID || c.ttl == 0 {
		return fn()
	}

	key := CacheKey(a, b, opts)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.expired(entry) {
		return entry.result, nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && !c.expired(entry) {
			return entry.result, nil
		}

		result, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.pruneLocked()
		c.entries[key] = &cachedDiff{result: result, ids: [2]string{a, b}, built: c.now()}
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DiffResult), nil
}

// pruneLocked drops expired entries. c.mu must be held for writing.
func (c *DiffCache) pruneLocked() {
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
		}
	}
}

// Invalidate drops every entry involving the snapshot id.
func (c *DiffCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.ids[0] == id || e.ids[1] == id {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of stored entries.
func (c *DiffCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
