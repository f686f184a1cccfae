package bookmarker

import "context"

// Extractor turns the HTML of a page into Metadata.
//
// Implementations are interchangeable: heuristic scrapers read known tag
// patterns, generative extractors ask a language model for an object that
// matches the Metadata schema. A result that does not satisfy the schema is
// reported as ESCHEMA.
type Extractor interface {
	Extract(ctx context.Context, html string, pageURL string) (*Metadata, error)
}
