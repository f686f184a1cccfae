package redis_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fwojciec/bookmarker"
	bookmarkerredis "github.com/fwojciec/bookmarker/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, opts ...bookmarkerredis.Option) (*bookmarkerredis.MetadataCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return bookmarkerredis.NewMetadataCache(client, opts...), mr
}

func TestMetadataCache_FindCacheEntry(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown url", func(t *testing.T) {
		t.Parallel()

		cache, _ := setupCache(t)

		_, err := cache.FindCacheEntry(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, bookmarker.ENOTFOUND, bookmarker.ErrorCode(err))
	})

	t.Run("returns stored entry", func(t *testing.T) {
		t.Parallel()

		cache, _ := setupCache(t)
		cache.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
		ctx := context.Background()

		require.NoError(t, cache.UpsertCacheEntry(ctx, "https://example.com/a", []byte(`{"title":"Hello"}`)))

		entry, err := cache.FindCacheEntry(ctx, "https://example.com/a")

		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "https://example.com/a", entry.URL)
		assert.JSONEq(t, `{"title":"Hello"}`, string(entry.Data))
		assert.True(t, entry.CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
		assert.True(t, entry.UpdatedAt.Equal(entry.CreatedAt))
	})

	t.Run("treats a hash for another url as a miss", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t)
		key := cache.Key("https://example.com")
		mr.HSet(key, "url", "https://other.example.com", "data", `{}`)

		_, err := cache.FindCacheEntry(context.Background(), "https://example.com")

		assert.Equal(t, bookmarker.ENOTFOUND, bookmarker.ErrorCode(err))
	})

	t.Run("returns error when redis is unavailable", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t)
		mr.Close()

		_, err := cache.FindCacheEntry(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.NotEqual(t, bookmarker.ENOTFOUND, bookmarker.ErrorCode(err))
	})
}

func TestMetadataCache_UpsertCacheEntry(t *testing.T) {
	t.Parallel()

	t.Run("stores a hash under the prefixed key", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t)

		require.NoError(t, cache.UpsertCacheEntry(context.Background(), "https://example.com", []byte(`{}`)))

		key := cache.Key("https://example.com")
		assert.True(t, strings.HasPrefix(key, bookmarkerredis.DefaultKeyPrefix))
		assert.True(t, mr.Exists(key))
		assert.Equal(t, "https://example.com", mr.HGet(key, "url"))
		assert.Equal(t, "{}", mr.HGet(key, "data"))
		assert.NotEmpty(t, mr.HGet(key, "id"))
		assert.NotEmpty(t, mr.HGet(key, "created_at"))
		assert.Zero(t, mr.TTL(key))
	})

	t.Run("overwrites data and keeps id and created_at", func(t *testing.T) {
		t.Parallel()

		cache, _ := setupCache(t)
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		cache.Now = func() time.Time { return now }
		ctx := context.Background()

		require.NoError(t, cache.UpsertCacheEntry(ctx, "https://example.com", []byte(`{"v":1}`)))
		first, err := cache.FindCacheEntry(ctx, "https://example.com")
		require.NoError(t, err)

		now = now.Add(time.Hour)
		require.NoError(t, cache.UpsertCacheEntry(ctx, "https://example.com", []byte(`{"v":2}`)))
		second, err := cache.FindCacheEntry(ctx, "https://example.com")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		assert.True(t, second.UpdatedAt.Equal(first.UpdatedAt.Add(time.Hour)))
		assert.JSONEq(t, `{"v":2}`, string(second.Data))
	})

	t.Run("concurrent upserts keep one id", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, cache.UpsertCacheEntry(ctx, "https://example.com", []byte(fmt.Sprintf(`{"v":%d}`, i))))
			}()
		}
		wg.Wait()

		key := cache.Key("https://example.com")
		keys := mr.Keys()
		assert.Equal(t, []string{key}, keys)
		assert.NotEmpty(t, mr.HGet(key, "id"))
	})

	t.Run("expires entries after ttl", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t, bookmarkerredis.WithTTL(time.Hour))
		ctx := context.Background()

		require.NoError(t, cache.UpsertCacheEntry(ctx, "https://example.com", []byte(`{}`)))
		assert.Equal(t, time.Hour, mr.TTL(cache.Key("https://example.com")))

		mr.FastForward(2 * time.Hour)

		_, err := cache.FindCacheEntry(ctx, "https://example.com")
		assert.Equal(t, bookmarker.ENOTFOUND, bookmarker.ErrorCode(err))
	})

	t.Run("uses custom key prefix", func(t *testing.T) {
		t.Parallel()

		cache, mr := setupCache(t, bookmarkerredis.WithKeyPrefix("test:"))

		require.NoError(t, cache.UpsertCacheEntry(context.Background(), "https://example.com", []byte(`{}`)))

		key := cache.Key("https://example.com")
		assert.True(t, strings.HasPrefix(key, "test:"))
		assert.True(t, mr.Exists(key))
	})

	t.Run("keys have fixed length", func(t *testing.T) {
		t.Parallel()

		cache, _ := setupCache(t)

		short := cache.Key("https://a.io")
		long := cache.Key("https://example.com/" + strings.Repeat("x", 2000))
		assert.Len(t, long, len(short))
		assert.NotEqual(t, short, long)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		cache, _ := setupCache(t)

		err := cache.UpsertCacheEntry(context.Background(), "", []byte(`{}`))

		assert.Equal(t, bookmarker.EINVALID, bookmarker.ErrorCode(err))
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("connects to a running server", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)

		client, err := bookmarkerredis.NewClient(bookmarkerredis.Config{Address: mr.Addr()})

		require.NoError(t, err)
		require.NoError(t, client.Close())
	})

	t.Run("requires an address", func(t *testing.T) {
		t.Parallel()

		_, err := bookmarkerredis.NewClient(bookmarkerredis.Config{})

		require.ErrorIs(t, err, bookmarkerredis.ErrEmptyAddress)
	})

	t.Run("fails when server is unreachable", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := bookmarkerredis.NewClient(bookmarkerredis.Config{Address: addr})

		require.Error(t, err)
	})
}
