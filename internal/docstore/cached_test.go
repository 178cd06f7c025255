package docstore

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *mapCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func TestCached_Conformance(t *testing.T) {
	runConformance(t, func(t *testing.T) Store {
		return NewCached(NewMemory(), newMapCache(), time.Minute, zerolog.Nop())
	})
}

func TestCached_ReadThroughAndInvalidateOnWrite(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	s := NewCached(NewMemory(), cache, time.Minute, zerolog.Nop())

	require.NoError(t, s.Set(ctx, "user_profiles/alice", map[string]any{"bio": "v1"}))

	raw, err := s.Get(ctx, "user_profiles/alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"v1"}`, string(raw))
	assert.True(t, cache.has("doc:user_profiles/alice"))

	_, err = s.Get(ctx, "user_profiles")
	require.NoError(t, err)
	assert.True(t, cache.has("doc:user_profiles"))

	require.NoError(t, s.Set(ctx, "user_profiles/alice", map[string]any{"bio": "v2"}))
	assert.False(t, cache.has("doc:user_profiles/alice"))
	assert.False(t, cache.has("doc:user_profiles"))

	raw, err = s.Get(ctx, "user_profiles/alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"v2"}`, string(raw))
}

func TestCached_PushInvalidatesCollection(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	s := NewCached(NewMemory(), cache, time.Minute, zerolog.Nop())

	_, err := s.Push(ctx, "opportunities/c1", map[string]any{"id": "a"})
	require.NoError(t, err)
	_, err = s.Get(ctx, "opportunities/c1")
	require.NoError(t, err)
	require.True(t, cache.has("doc:opportunities/c1"))

	_, err = s.Push(ctx, "opportunities/c1", map[string]any{"id": "b"})
	require.NoError(t, err)
	assert.False(t, cache.has("doc:opportunities/c1"))

	raw, err := s.Get(ctx, "opportunities/c1")
	require.NoError(t, err)
	children, err := Children(raw)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestCached_DeleteDropsSubtreeEntries(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	s := NewCached(NewMemory(), cache, time.Minute, zerolog.Nop())

	k, err := s.Push(ctx, "opportunities/c1", map[string]any{"id": "a"})
	require.NoError(t, err)
	_, err = s.Get(ctx, "opportunities/c1/"+k)
	require.NoError(t, err)
	require.True(t, cache.has("doc:opportunities/c1/"+k))

	require.NoError(t, s.Delete(ctx, "opportunities/c1"))
	assert.False(t, cache.has("doc:opportunities/c1/"+k))
}

// interleavedStore runs afterGet once, right after the first read returns.
type interleavedStore struct {
	Store
	once     sync.Once
	afterGet func()
}

func (s *interleavedStore) Get(ctx context.Context, p string) (json.RawMessage, error) {
	raw, err := s.Store.Get(ctx, p)
	s.once.Do(s.afterGet)
	return raw, err
}

func TestCached_ReadRacingWriteDoesNotFillStaleValue(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, "user_profiles/alice", map[string]any{"bio": "old"}))

	inner := &interleavedStore{Store: mem}
	s := NewCached(inner, cache, time.Minute, zerolog.Nop())
	inner.afterGet = func() {
		require.NoError(t, s.Set(ctx, "user_profiles/alice", map[string]any{"bio": "new"}))
	}

	raw, err := s.Get(ctx, "user_profiles/alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"old"}`, string(raw))
	assert.False(t, cache.has(CacheKey("user_profiles/alice")))

	raw, err = s.Get(ctx, "user_profiles/alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"new"}`, string(raw))
}
