package docstore

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "doc:"

// Cache is the subset of the Redis client the cached store relies on.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Cached is a read-through cache over another Store. Every write drops the
// cached entry for the path, each of its ancestors and its whole subtree, so
// a read never observes data older than the last write through this store.
// A read that raced a write does not fill the cache.
type Cached struct {
	next   Store
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger

	writes atomic.Uint64
}

func NewCached(next Store, cache Cache, ttl time.Duration, logger zerolog.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger}
}

func CacheKey(path string) string {
	return cacheKeyPrefix + strings.Trim(path, "/")
}

func (c *Cached) Get(ctx context.Context, path string) (json.RawMessage, error) {
	key := CacheKey(path)

	var cached json.RawMessage
	hit, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("docstore cache read failed")
	}
	if hit && len(cached) > 0 {
		return cached, nil
	}

	seen := c.writes.Load()
	raw, err := c.next.Get(ctx, path)
	if err != nil || raw == nil {
		return raw, err
	}
	if c.writes.Load() != seen {
		return raw, nil
	}
	if err := c.cache.SetJSON(ctx, key, raw, c.ttl); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("docstore cache write failed")
	}
	// a write may have landed between the check and the fill
	if c.writes.Load() != seen {
		_ = c.cache.Delete(ctx, key)
	}
	return raw, nil
}

func (c *Cached) Set(ctx context.Context, path string, value any) error {
	defer c.written(ctx, path)
	return c.next.Set(ctx, path, value)
}

func (c *Cached) Push(ctx context.Context, path string, value any) (string, error) {
	key, err := c.next.Push(ctx, path, value)
	if err == nil {
		c.written(ctx, path+"/"+key)
	}
	return key, err
}

func (c *Cached) Update(ctx context.Context, path string, partial map[string]any) error {
	defer c.written(ctx, path)
	return c.next.Update(ctx, path, partial)
}

func (c *Cached) Delete(ctx context.Context, path string) error {
	defer c.written(ctx, path)
	return c.next.Delete(ctx, path)
}

func (c *Cached) written(ctx context.Context, path string) {
	c.writes.Add(1)
	c.invalidate(ctx, path)
}

func (c *Cached) invalidate(ctx context.Context, path string) {
	segs, err := split(path)
	if err != nil {
		return
	}
	for i := 1; i <= len(segs); i++ {
		key := CacheKey(strings.Join(segs[:i], "/"))
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("docstore cache invalidation failed")
		}
	}
	pattern := CacheKey(strings.Join(segs, "/")) + "/*"
	if err := c.cache.DeleteByPattern(ctx, pattern); err != nil {
		c.logger.Warn().Err(err).Str("pattern", pattern).Msg("docstore cache invalidation failed")
	}
}
