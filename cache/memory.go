package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process page cache. Expired entries are removed
// lazily on read and in bulk by Sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get retrieves a page. Returns (nil, false) on miss or expiry.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a page. TTL<=0 means the page is not cached.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes a page. Idempotent.
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of live entries, counting not-yet-swept
// expired ones.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep drops all expired entries and reports how many were removed.
func (c *Memory) Sweep() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

var _ Cache = (*Memory)(nil)
