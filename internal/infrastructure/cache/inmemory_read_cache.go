package cache

import (
	"context"
	"sync"
	"time"
)

// cacheEntry is a stored payload with its expiry instant
type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryReadCache implements ReadCache with a mutex-guarded map. Suitable
// for single-instance deployments and tests. Expired entries are dropped
// lazily on access and by a background sweep.
type InMemoryReadCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReadCache creates an in-memory read cache and starts its
// cleanup goroutine.
func NewInMemoryReadCache() *InMemoryReadCache {
	c := &InMemoryReadCache{
		entries:  make(map[string]cacheEntry),
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns the cached payload for fp if present and unexpired
func (c *InMemoryReadCache) Get(ctx context.Context, fp string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[fp]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under fp for ttl
func (c *InMemoryReadCache) Set(ctx context.Context, fp string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fp] = cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate evicts fp
func (c *InMemoryReadCache) Invalidate(ctx context.Context, fp string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fp)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryReadCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryReadCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

// removeExpired drops all entries past their expiry
func (c *InMemoryReadCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for fp, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, fp)
		}
	}
}

// Ensure InMemoryReadCache implements ReadCache
var _ ReadCache = (*InMemoryReadCache)(nil)
