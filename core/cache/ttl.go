package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how long a translation may be served from the shared
// tier after it was last read through from the store.
const DefaultTTL = 30 * time.Minute

// defaultSweepInterval is how often the janitor removes expired entries.
const defaultSweepInterval = 5 * time.Minute

// TTLCache is an in-process SharedCache with per-entry expiry. Expired
// entries are dropped lazily on read and swept periodically by a background
// janitor so that a quiet cache does not pin memory forever.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	ttl     time.Duration
	sweep   time.Duration
	done    chan struct{}
	once    sync.Once
}

type ttlEntry struct {
	text      string
	expiresAt time.Time
}

// TTLCacheOption configures a TTLCache.
type TTLCacheOption func(*TTLCache)

// WithTTL sets the entry lifetime. Default is DefaultTTL.
func WithTTL(ttl time.Duration) TTLCacheOption {
	return func(c *TTLCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often expired entries are removed in the
// background. Default is 5 minutes.
func WithSweepInterval(interval time.Duration) TTLCacheOption {
	return func(c *TTLCache) {
		if interval > 0 {
			c.sweep = interval
		}
	}
}

// NewTTLCache creates a shared cache with per-entry TTL and starts its
// janitor goroutine. Call Close to stop the janitor.
func NewTTLCache(opts ...TTLCacheOption) *TTLCache {
	c := &TTLCache{
		entries: make(map[string]ttlEntry),
		ttl:     DefaultTTL,
		sweep:   defaultSweepInterval,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.janitor()

	return c
}

// Get returns the cached text for (language, key) if present and not
// expired.
func (c *TTLCache) Get(ctx context.Context, language, key string) (string, bool) {
	k := entryKey(language, key)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.entries[k]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return "", false
	}
	return e.text, true
}

// Set stores the text for (language, key) with a fresh TTL.
func (c *TTLCache) Set(ctx context.Context, language, key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryKey(language, key)] = ttlEntry{
		text:      text,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete evicts the entry for (language, key).
func (c *TTLCache) Delete(ctx context.Context, language, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, entryKey(language, key))
}

// Len reports the number of live entries, expired ones included until the
// next sweep.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the janitor goroutine. The cache remains usable afterwards;
// only background sweeping stops. Close is idempotent.
func (c *TTLCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *TTLCache) janitor() {
	ticker := time.NewTicker(c.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
