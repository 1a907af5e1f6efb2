package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](ttl)
	c.now = clock.now
	return c, clock
}

func TestTTLCacheExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.t = clock.t.Add(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCachePurgeAndInvalidate(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("old", 1)
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("new", 2)
	clock.t = clock.t.Add(45 * time.Second)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())

	c.Invalidate()
	_, ok := c.Get("new")
	assert.False(t, ok)
}

func TestTTLCacheDisabled(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheSetIfGeneration(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	gen := c.Generation()
	assert.True(t, c.SetIfGeneration("fresh", 1, gen))
	v, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// A value computed before an invalidation must not be stored after it.
	stale := c.Generation()
	c.Invalidate()
	assert.False(t, c.SetIfGeneration("stale", 2, stale))
	_, ok = c.Get("stale")
	assert.False(t, ok)

	assert.True(t, c.SetIfGeneration("stale", 3, c.Generation()))
	v, ok = c.Get("stale")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}
