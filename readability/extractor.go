// Package readability extracts bookmark metadata with go-readability.
package readability

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/bookmarker"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements bookmarker.Extractor at compile time.
var _ bookmarker.Extractor = (*Extractor)(nil)

// Extractor runs the readability algorithm over a page and maps the
// resulting article onto Metadata. The excerpt serves as both description
// and summary.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns its metadata.
func (e *Extractor) Extract(_ context.Context, html string, pageURL string) (*bookmarker.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "invalid page URL: %q", pageURL)
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "readability: %v", err)
	}

	m := &bookmarker.Metadata{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		Image:       strings.TrimSpace(article.Image),
		Favicon:     strings.TrimSpace(article.Favicon),
		SiteName:    strings.TrimSpace(article.SiteName),
		Summary:     strings.TrimSpace(article.Excerpt),
		Tags:        []string{},
	}
	if m.Title == "" {
		return nil, bookmarker.Errorf(bookmarker.ESCHEMA, "no title found on %s", pageURL)
	}
	return m, nil
}
