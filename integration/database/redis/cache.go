package redis

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL matches the in-process cache tier default.
const DefaultTTL = 30 * time.Minute

// defaultKeyPrefix namespaces cache entries within a shared Redis.
const defaultKeyPrefix = "linguakit:t:"

// Cache is the Redis-backed cache.SharedCache. Entries are keyed
// "<prefix><language>:<key>" with a TTL. All Redis errors degrade to cache
// misses; the caller falls through to the store.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the entry lifetime. Default is DefaultTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix overrides the Redis key namespace.
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger configures structured logging for degraded operations.
func WithLogger(log *slog.Logger) CacheOption {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCache creates a shared cache on top of an established client.
func NewCache(client *redis.Client, opts ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		ttl:    DefaultTTL,
		prefix: defaultKeyPrefix,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached text for (language, key), if present.
func (c *Cache) Get(ctx context.Context, language, key string) (string, bool) {
	text, err := c.client.Get(ctx, c.entryKey(language, key)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis cache read failed", "language", language, "key", key, "error", err)
		}
		return "", false
	}
	return text, true
}

// Set stores the text for (language, key) with the configured TTL.
func (c *Cache) Set(ctx context.Context, language, key, text string) {
	if err := c.client.Set(ctx, c.entryKey(language, key), text, c.ttl).Err(); err != nil {
		c.log.Warn("redis cache write failed", "language", language, "key", key, "error", err)
	}
}

// Delete evicts the entry for (language, key).
func (c *Cache) Delete(ctx context.Context, language, key string) {
	if err := c.client.Del(ctx, c.entryKey(language, key)).Err(); err != nil {
		c.log.Warn("redis cache eviction failed", "language", language, "key", key, "error", err)
	}
}

func (c *Cache) entryKey(language, key string) string {
	return c.prefix + language + ":" + key
}
