package source

import (
	"sync"
	"time"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// Cache holds the most recently fetched feed payload for a bounded
// freshness window. It is an explicitly constructed object rather than
// package state so each process owns exactly one and tests can control
// the clock. A mutex guards it for use behind concurrent request
// handlers; last-writer-wins is fine since the payload is idempotent
// within the TTL window.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	payload   *opensky.StatesResponse
	fetchedAt time.Time
}

// NewCache creates a cache with the given freshness window. A zero or
// negative TTL produces a cache that is never fresh.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// SetClock replaces the cache's time source. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Put stores a payload with the current timestamp, overwriting any
// previous entry.
func (c *Cache) Put(payload *opensky.StatesResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = payload
	c.fetchedAt = c.now()
}

// Get returns the cached payload if it is still fresh.
func (c *Cache) Get() (*opensky.StatesResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freshLocked() {
		return nil, false
	}
	return c.payload, true
}

// IsFresh reports whether a fresh entry exists without returning it.
func (c *Cache) IsFresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshLocked()
}

func (c *Cache) freshLocked() bool {
	if c.payload == nil || c.ttl <= 0 {
		return false
	}
	return c.now().Sub(c.fetchedAt) < c.ttl
}
