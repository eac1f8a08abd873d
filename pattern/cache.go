package pattern

import (
	"container/list"
	"strings"
	"sync"
)

const (
	// DefaultCacheSize is the default entry cap for a detection result cache.
	DefaultCacheSize = 256

	// maxCacheKeyLen caps the normalized prefix used as a cache key so
	// pathological inputs cannot grow keys without bound.
	maxCacheKeyLen = 64
)

// ResultCache is a bounded LRU cache of detection results. Entries store
// rule indices into the registry rather than rules, so a hit is always
// served in registry order and two detectors sharing a registry agree on
// the cached value.
//
// The cache is an injected, explicitly owned object so multiple engine
// instances can run without cross-contamination. All methods are guarded by
// a mutex; strict LRU ordering may be lost under contention but entries are
// never corrupted.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	lru      *list.List

	hits   int64
	misses int64
}

type cacheEntry struct {
	key     string
	indices []int
}

// NewResultCache creates an LRU cache holding at most capacity entries.
// A non-positive capacity falls back to DefaultCacheSize.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Key normalizes raw input into a cache key: lowercased, trimmed, and
// truncated to the key-length cap.
func Key(text string) string {
	k := strings.ToLower(strings.TrimSpace(text))
	if len(k) > maxCacheKeyLen {
		k = k[:maxCacheKeyLen]
	}
	return k
}

// Get returns the cached rule indices for the key. The second return value
// distinguishes a cached empty result from a miss; empty results are
// cacheable.
func (c *ResultCache) Get(key string) ([]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.lru.MoveToFront(elem)
	c.hits++

	stored := elem.Value.(*cacheEntry).indices
	out := make([]int, len(stored))
	copy(out, stored)
	return out, true
}

// Put stores rule indices for the key, evicting the least recently used
// entry when the cache is full.
func (c *ResultCache) Put(key string, indices []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]int, len(indices))
	copy(stored, indices)

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).indices = stored
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, indices: stored})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the current number of entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns hit and miss counters and the hit rate.
func (c *ResultCache) Stats() (hits, misses int64, hitRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hits
	misses = c.misses
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return
}

// Clear drops all entries and resets the counters.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru = list.New()
	c.hits = 0
	c.misses = 0
}
