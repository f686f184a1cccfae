package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/bookmarker"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ bookmarker.MetadataCache = (*MetadataCache)(nil)

// MetadataCache implements bookmarker.MetadataCache using SQLite.
type MetadataCache struct {
	db *DB
}

// NewMetadataCache creates a new MetadataCache.
func NewMetadataCache(db *DB) *MetadataCache {
	return &MetadataCache{db: db}
}

// FindCacheEntry retrieves the entry stored under url.
// Returns ENOTFOUND if there is none.
func (c *MetadataCache) FindCacheEntry(ctx context.Context, url string) (*bookmarker.CacheEntry, error) {
	var entry bookmarker.CacheEntry
	var data, createdAt, updatedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT id, url, data, created_at, updated_at
		FROM scraped_data
		WHERE url = ?
	`, url).Scan(&entry.ID, &entry.URL, &data, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, bookmarker.Errorf(bookmarker.ENOTFOUND, "cache entry not found")
	}
	if err != nil {
		return nil, err
	}

	entry.Data = []byte(data)
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpsertCacheEntry stores data under url in a single statement. An existing
// row keeps its id and created_at; data and updated_at are overwritten.
func (c *MetadataCache) UpsertCacheEntry(ctx context.Context, url string, data []byte) error {
	if url == "" {
		return bookmarker.Errorf(bookmarker.EINVALID, "cache key required")
	}
	if len(data) == 0 {
		return bookmarker.Errorf(bookmarker.EINVALID, "cache data required")
	}

	now := formatTime(c.db.now())

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO scraped_data (id, url, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, uuid.New().String(), url, string(data), now, now)

	return err
}
