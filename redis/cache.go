package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/bookmarker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "bookmarker:metadata:"

const (
	fieldID        = "id"
	fieldURL       = "url"
	fieldData      = "data"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// Compile-time interface verification.
var _ bookmarker.MetadataCache = (*MetadataCache)(nil)

// MetadataCache implements bookmarker.MetadataCache with one Redis hash
// per normalized URL. Keys carry a 64-bit xxhash of the URL so that key
// length stays fixed; the URL itself is stored in the hash and checked on
// read.
type MetadataCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	// Now returns the current time. Overridable in tests.
	Now func() time.Time
}

// Option configures a MetadataCache.
type Option func(*MetadataCache)

// WithTTL expires entries ttl after their last write. Zero keeps entries
// until they are removed externally.
func WithTTL(ttl time.Duration) Option {
	return func(c *MetadataCache) {
		c.ttl = ttl
	}
}

// WithKeyPrefix sets the prefix prepended to every key.
func WithKeyPrefix(prefix string) Option {
	return func(c *MetadataCache) {
		c.prefix = prefix
	}
}

// NewMetadataCache creates a new MetadataCache.
func NewMetadataCache(client *redis.Client, opts ...Option) *MetadataCache {
	c := &MetadataCache{
		client: client,
		prefix: DefaultKeyPrefix,
		Now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the Redis key for url.
func (c *MetadataCache) Key(url string) string {
	return fmt.Sprintf("%s%016x", c.prefix, xxhash.Sum64String(url))
}

// FindCacheEntry retrieves the entry stored under url.
// Returns ENOTFOUND if there is none.
func (c *MetadataCache) FindCacheEntry(ctx context.Context, url string) (*bookmarker.CacheEntry, error) {
	vals, err := c.client.HGetAll(ctx, c.Key(url)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if len(vals) == 0 {
		return nil, bookmarker.Errorf(bookmarker.ENOTFOUND, "cache entry not found")
	}

	data, ok := vals[fieldData]
	if !ok || vals[fieldURL] != url {
		return nil, bookmarker.Errorf(bookmarker.ENOTFOUND, "cache entry has no data")
	}

	entry := &bookmarker.CacheEntry{
		ID:   vals[fieldID],
		URL:  url,
		Data: []byte(data),
	}
	if entry.CreatedAt, err = parseTime(vals[fieldCreatedAt], fieldCreatedAt); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseTime(vals[fieldUpdatedAt], fieldUpdatedAt); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpsertCacheEntry stores data under url in one MULTI transaction. The
// first write sets id and created_at; later writes only replace data and
// updated_at.
func (c *MetadataCache) UpsertCacheEntry(ctx context.Context, url string, data []byte) error {
	if url == "" {
		return bookmarker.Errorf(bookmarker.EINVALID, "cache key required")
	}
	if len(data) == 0 {
		return bookmarker.Errorf(bookmarker.EINVALID, "cache data required")
	}

	key := c.Key(url)
	now := c.Now().UTC().Format(time.RFC3339Nano)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldID, uuid.New().String())
		pipe.HSetNX(ctx, key, fieldCreatedAt, now)
		pipe.HSet(ctx, key, fieldURL, url, fieldData, string(data), fieldUpdatedAt, now)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

func parseTime(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}
