package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedItem struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Available bool   `json:"available"`
}

func TestRedisCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()
	key := Key("item", "42")

	t.Run("Miss", func(t *testing.T) {
		var got cachedItem
		ok, err := c.Get(ctx, key, &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		want := cachedItem{ID: "42", OwnerID: "7", Available: true}
		require.NoError(t, c.Set(ctx, key, want))

		var got cachedItem
		ok, err := c.Get(ctx, key, &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("Expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, key, cachedItem{ID: "42"}))
		s.FastForward(2 * time.Minute)

		var got cachedItem
		ok, err := c.Get(ctx, key, &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, key, cachedItem{ID: "42"}))
		require.NoError(t, c.Delete(ctx, key))
		assert.False(t, s.Exists(key))
		require.NoError(t, c.Delete(ctx))
	})

	t.Run("CorruptValue", func(t *testing.T) {
		require.NoError(t, s.Set(key, "not-json"))
		var got cachedItem
		_, err := c.Get(ctx, key, &got)
		assert.Error(t, err)
	})
}

func TestRedisCacheUnavailable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()

	c := NewRedisCache(client, time.Minute)
	var got cachedItem
	_, err = c.Get(context.Background(), Key("user", "1"), &got)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1))
	var v int
	ok, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "shareit:user:abc", Key("user", "abc"))
	assert.Equal(t, "user", prefixOf(Key("user", "abc")))
}
