package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	c := NewCache(0, 0)
	t.Cleanup(c.Flush)

	return c
}

func TestCache_SetGet(t *testing.T) {
	c := setupTestCache(t)

	c.Set("key", "value")

	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCache_SetWithExpiration(t *testing.T) {
	c := setupTestCache(t)

	c.Set("key", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := setupTestCache(t)

	c.Set(CacheKeyFeaturedPosts(), []string{"a"})
	c.Set(CacheKeyTags(), []string{"b"})
	c.Set("other", 1)

	c.Invalidate(CacheKeyFeaturedPosts(), CacheKeyTags())

	_, ok := c.Get(CacheKeyFeaturedPosts())
	assert.False(t, ok)
	_, ok = c.Get(CacheKeyTags())
	assert.False(t, ok)
	_, ok = c.Get("other")
	assert.True(t, ok)
}

func TestCache_Flush(t *testing.T) {
	c := setupTestCache(t)

	c.Set("key", "value")
	c.Flush()

	_, ok := c.Get("key")
	assert.False(t, ok)
}
