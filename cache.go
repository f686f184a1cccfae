package bookmarker

import (
	"context"
	"time"
)

// CacheEntry is a stored extraction result keyed by normalized URL.
// Data holds the JSON payload as written; it is validated on every read
// because entries written by an older schema may no longer parse.
type CacheEntry struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MetadataCache stores extraction results. There is at most one entry per
// URL; both operations are atomic for a single URL.
type MetadataCache interface {
	// FindCacheEntry retrieves the entry stored under url.
	// Returns ENOTFOUND if there is no entry.
	FindCacheEntry(ctx context.Context, url string) (*CacheEntry, error)

	// UpsertCacheEntry creates the entry for url or overwrites its data.
	UpsertCacheEntry(ctx context.Context, url string, data []byte) error
}
