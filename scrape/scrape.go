// Package scrape provides the metadata extraction pipeline. It normalizes
// the URL, consults the cache, and on a miss fetches the page, extracts its
// metadata and stores the result.
package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fwojciec/bookmarker"
)

// Default timeouts for the two external calls of a cache miss.
const (
	DefaultFetchTimeout   = 10 * time.Second
	DefaultExtractTimeout = 60 * time.Second
)

// Ensure Service implements bookmarker.MetadataService at compile time.
var _ bookmarker.MetadataService = (*Service)(nil)

// Service extracts page metadata, caching results by normalized URL.
//
// Concurrent calls for the same uncached URL are not coordinated: each one
// fetches and extracts, and the last upsert wins.
type Service struct {
	Cache     bookmarker.MetadataCache
	Fetcher   bookmarker.Fetcher
	Extractor bookmarker.Extractor

	// Timeouts bound the fetch and the extraction of a cache miss.
	// Zero means the package default.
	FetchTimeout   time.Duration
	ExtractTimeout time.Duration

	// Logger records cache entries discarded for failing the schema.
	// Nil discards the records.
	Logger *slog.Logger
}

// ExtractMetadata returns metadata for rawURL, from the cache when a valid
// entry exists under the normalized URL, otherwise by fetching rawURL and
// running the extractor. Extraction is all-or-nothing: no partial metadata is
// ever returned or stored.
func (s *Service) ExtractMetadata(ctx context.Context, rawURL string) (*bookmarker.Result, error) {
	if err := bookmarker.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := bookmarker.NormalizeURL(rawURL)

	cached, err := s.cachedMetadata(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &bookmarker.Result{Metadata: cached, URL: rawURL, Cached: true}, nil
	}

	// The request always uses the original URL, not the cache key.
	html, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	metadata, err := s.extract(ctx, html, rawURL)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.UpsertCacheEntry(ctx, key, data); err != nil {
		return nil, err
	}

	return &bookmarker.Result{Metadata: metadata, URL: rawURL}, nil
}

// cachedMetadata returns the cached metadata for key, or nil on a miss.
// An entry that no longer matches the Metadata schema counts as a miss so
// that it gets re-extracted and overwritten.
func (s *Service) cachedMetadata(ctx context.Context, key string) (*bookmarker.Metadata, error) {
	entry, err := s.Cache.FindCacheEntry(ctx, key)
	if bookmarker.ErrorCode(err) == bookmarker.ENOTFOUND {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	metadata, err := bookmarker.ParseMetadata(entry.Data)
	if err != nil {
		s.logger().Debug("discarding invalid cache entry",
			"url", key,
			"err", bookmarker.ErrorMessage(err),
		)
		return nil, nil
	}
	return metadata, nil
}

func (s *Service) fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(s.FetchTimeout, DefaultFetchTimeout))
	defer cancel()

	html, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", bookmarker.Errorf(bookmarker.EFETCH, "fetch %s: %v", rawURL, err)
	}
	return html, nil
}

func (s *Service) extract(ctx context.Context, html, rawURL string) (*bookmarker.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(s.ExtractTimeout, DefaultExtractTimeout))
	defer cancel()

	metadata, err := s.Extractor.Extract(ctx, html, rawURL)
	if err != nil {
		if bookmarker.ErrorCode(err) == bookmarker.ESCHEMA {
			return nil, err
		}
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "extract %s: %v", rawURL, err)
	}
	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
