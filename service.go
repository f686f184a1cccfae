package bookmarker

import "context"

// Result is the outcome of a metadata extraction.
type Result struct {
	Metadata *Metadata `json:"result"`

	// URL is the URL as requested, not its normalized form.
	URL string `json:"url"`

	// Cached is true when the metadata came from the cache.
	Cached bool `json:"cached"`
}

// MetadataService produces metadata for bookmarked URLs.
type MetadataService interface {
	// ExtractMetadata returns the metadata for url, from the cache when a
	// valid entry exists and by fetching and extracting the page otherwise.
	// Returns EINVALID for a malformed URL; EFETCH, ESCHEMA or EEXTRACT when
	// the page cannot be turned into metadata.
	ExtractMetadata(ctx context.Context, url string) (*Result, error)
}
