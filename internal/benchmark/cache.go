package benchmark

import (
	"sync"
	"time"
)

// Cache holds live results until they expire.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result  *Result
	expires time.Time
}

// NewCache creates a cache. A non-positive ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns an unexpired result.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

// Put stores result under key.
func (c *Cache) Put(key string, result *Result) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len counts entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
