package trafilatura

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/bookmarker"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements bookmarker.Extractor at compile time.
var _ bookmarker.Extractor = (*Extractor)(nil)

// DefaultSummaryLength is the character budget for the generated summary.
const DefaultSummaryLength = 300

// Extractor enriches the result of a base extractor with what go-trafilatura
// finds on the page: tags from keywords and categories, and a summary taken
// from the leading sentences of the main text. Title, description, image
// and site name only fill fields the base left empty.
type Extractor struct {
	Base bookmarker.Extractor

	// SummaryLength caps the summary in characters.
	SummaryLength int
}

// NewExtractor creates a new Extractor on top of base. A nil base relies
// on trafilatura alone.
func NewExtractor(base bookmarker.Extractor) *Extractor {
	return &Extractor{
		Base:          base,
		SummaryLength: DefaultSummaryLength,
	}
}

// Extract runs the base extractor, then merges in trafilatura output.
func (e *Extractor) Extract(ctx context.Context, html string, pageURL string) (*bookmarker.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "empty HTML input")
	}

	m := &bookmarker.Metadata{Tags: []string{}}
	if e.Base != nil {
		base, err := e.Base.Extract(ctx, html, pageURL)
		switch {
		case bookmarker.ErrorCode(err) == bookmarker.ESCHEMA:
			// The base found no title; trafilatura may still find one.
		case err != nil:
			return nil, err
		default:
			m = base
		}
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(html), opts)
	switch {
	case err == nil:
		e.enrich(m, result)
	case e.Base == nil:
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "trafilatura: %v", err)
	}

	if strings.TrimSpace(m.Title) == "" {
		return nil, bookmarker.Errorf(bookmarker.ESCHEMA, "no title found on %s", pageURL)
	}

	return m, nil
}

// enrich fills m from the trafilatura result.
func (e *Extractor) enrich(m *bookmarker.Metadata, result *trafilatura.ExtractResult) {
	meta := result.Metadata
	m.Title = fill(m.Title, meta.Title)
	m.Description = fill(m.Description, meta.Description)
	m.Image = fill(m.Image, meta.Image)
	m.SiteName = fill(m.SiteName, meta.Sitename)
	m.Tags = mergeTags(m.Tags, meta.Tags, meta.Categories)
	if strings.TrimSpace(m.Summary) == "" {
		m.Summary = leadingSentences(result.ContentText, e.summaryLength())
	}
}

func (e *Extractor) summaryLength() int {
	if e.SummaryLength > 0 {
		return e.SummaryLength
	}
	return DefaultSummaryLength
}

func fill(current, candidate string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return strings.TrimSpace(candidate)
}

// mergeTags appends the groups to existing, skipping blanks and
// case-insensitive duplicates. Order of first appearance is kept.
func mergeTags(existing []string, groups ...[]string) []string {
	out := make([]string, 0, len(existing))
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, tag)
	}
	for _, tag := range existing {
		add(tag)
	}
	for _, group := range groups {
		for _, tag := range group {
			add(tag)
		}
	}
	return out
}

// leadingSentences returns as many whole sentences from the start of text
// as fit in limit characters. A first sentence longer than limit is cut at
// the last word boundary.
func leadingSentences(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	end := 0
	for i, r := range runes[:limit] {
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || runes[i+1] == ' ') {
			end = i + 1
		}
	}
	if end > 0 {
		return string(runes[:end])
	}

	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
