package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bookmarker"
)

// Ensure LoggingMetadataCache implements bookmarker.MetadataCache.
var _ bookmarker.MetadataCache = (*LoggingMetadataCache)(nil)

// LoggingMetadataCache wraps a MetadataCache with debug logging.
type LoggingMetadataCache struct {
	next   bookmarker.MetadataCache
	logger *slog.Logger
}

// NewLoggingMetadataCache creates a new LoggingMetadataCache.
func NewLoggingMetadataCache(next bookmarker.MetadataCache, logger *slog.Logger) *LoggingMetadataCache {
	return &LoggingMetadataCache{next: next, logger: logger}
}

// FindCacheEntry logs whether the lookup hit and delegates to the wrapped cache.
func (c *LoggingMetadataCache) FindCacheEntry(ctx context.Context, url string) (entry *bookmarker.CacheEntry, err error) {
	defer func(begin time.Time) {
		outcome := "hit"
		switch {
		case bookmarker.ErrorCode(err) == bookmarker.ENOTFOUND:
			outcome = "miss"
		case err != nil:
			outcome = "error"
		}
		attrs := []any{
			"url", url,
			"outcome", outcome,
			"duration", time.Since(begin),
		}
		if outcome == "error" {
			attrs = append(attrs, "err", err)
		}
		c.logger.Debug("cache find", attrs...)
	}(time.Now())
	return c.next.FindCacheEntry(ctx, url)
}

// UpsertCacheEntry logs the write and delegates to the wrapped cache.
func (c *LoggingMetadataCache) UpsertCacheEntry(ctx context.Context, url string, data []byte) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache upsert",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.UpsertCacheEntry(ctx, url, data)
}
