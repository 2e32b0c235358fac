package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := New[string](time.Minute, "test", nil)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("greeting", "namaste")
	got, ok := c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "namaste", got)
	assert.Equal(t, 1, c.Size())

	c.Delete("greeting")
	_, ok = c.Get("greeting")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New[int](10*time.Millisecond, "test", nil)
	c.Set("n", 42)

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("n")
	assert.False(t, ok)
}

func TestCacheMetrics(t *testing.T) {
	c := New[int](time.Minute, "test", nil)
	c.Set("a", 1)
	c.Get("a")
	c.Get("b")

	m := c.GetMetrics()
	assert.Equal(t, int64(1), m.Sets)
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
}

func TestKeyBuilderIsDeterministic(t *testing.T) {
	key1 := NewKeyBuilder().AddUser("u1").AddProfile([]string{"Historical"}).BuildOrDefault()
	key2 := NewKeyBuilder().AddUser("u1").AddProfile([]string{"Historical"}).BuildOrDefault()
	key3 := NewKeyBuilder().AddUser("u2").AddProfile([]string{"Historical"}).BuildOrDefault()

	require.NotEmpty(t, key1)
	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}
