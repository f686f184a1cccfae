package mock

import (
	"context"

	"github.com/fwojciec/bookmarker"
)

var _ bookmarker.MetadataCache = (*MetadataCache)(nil)

// MetadataCache is a mock implementation of bookmarker.MetadataCache.
type MetadataCache struct {
	FindCacheEntryFn   func(ctx context.Context, url string) (*bookmarker.CacheEntry, error)
	UpsertCacheEntryFn func(ctx context.Context, url string, data []byte) error
}

func (c *MetadataCache) FindCacheEntry(ctx context.Context, url string) (*bookmarker.CacheEntry, error) {
	return c.FindCacheEntryFn(ctx, url)
}

func (c *MetadataCache) UpsertCacheEntry(ctx context.Context, url string, data []byte) error {
	return c.UpsertCacheEntryFn(ctx, url, data)
}
