package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/fwojciec/bookmarker"
)

// Ensure Extractor implements bookmarker.Extractor at compile time.
var _ bookmarker.Extractor = (*Extractor)(nil)

// Extractor reads page metadata from standard HTML tags: OpenGraph and
// Twitter cards first, then plain meta tags and document elements. Each
// field is taken from the first rule that matches; a field no rule matches
// is left empty. Tags and summary are never produced.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns the metadata it declares. URLs are
// resolved against pageURL. Returns ESCHEMA if the page has no title.
func (e *Extractor) Extract(_ context.Context, html string, pageURL string) (*bookmarker.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "empty HTML input")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "invalid page URL: %v", err)
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err != nil {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "failed to parse OpenGraph: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "failed to parse HTML: %v", err)
	}

	m := &bookmarker.Metadata{
		Title: firstText(
			og.Title,
			metaContent(doc, "twitter:title"),
			doc.Find("title").First().Text(),
			doc.Find("h1").First().Text(),
		),
		Description: firstText(
			og.Description,
			metaContent(doc, "twitter:description"),
			metaContent(doc, "description"),
			itemprop(doc, "description"),
		),
		SiteName: firstText(
			og.SiteName,
			metaContent(doc, "application-name"),
			metaContent(doc, "apple-mobile-web-app-title"),
		),
		Image: resolveURL(base, firstText(
			ogImage(og),
			metaContent(doc, "twitter:image"),
			metaContent(doc, "twitter:image:src"),
			linkHref(doc, `link[rel="image_src"]`),
			itemprop(doc, "image"),
		)),
		Favicon: resolveURL(base, firstText(
			linkHref(doc, `link[rel~="icon"]`),
			linkHref(doc, `link[rel="apple-touch-icon"], link[rel="apple-touch-icon-precomposed"]`),
		)),
		Video: resolveURL(base, firstText(
			ogVideo(og),
			attr(doc, "video[src]", "src"),
			attr(doc, "video source[src]", "src"),
		)),
		Tags: []string{},
	}

	if m.Title == "" {
		return nil, bookmarker.Errorf(bookmarker.ESCHEMA, "no title found on %s", pageURL)
	}

	return m, nil
}

func ogImage(og *opengraph.OpenGraph) string {
	for _, img := range og.Images {
		if img == nil {
			continue
		}
		if img.SecureURL != "" {
			return img.SecureURL
		}
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

func ogVideo(og *opengraph.OpenGraph) string {
	for _, v := range og.Videos {
		if v == nil {
			continue
		}
		if v.SecureURL != "" {
			return v.SecureURL
		}
		if v.URL != "" {
			return v.URL
		}
	}
	return ""
}

// metaContent returns the content of the first meta tag whose name or
// property equals key.
func metaContent(doc *goquery.Document, key string) string {
	sel := `meta[name="` + key + `"], meta[property="` + key + `"]`
	return attr(doc, sel, "content")
}

func itemprop(doc *goquery.Document, prop string) string {
	sel := doc.Find(`[itemprop="` + prop + `"]`).First()
	if v, ok := sel.Attr("content"); ok {
		return v
	}
	if v, ok := sel.Attr("src"); ok {
		return v
	}
	return ""
}

func linkHref(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "href")
}

// attr returns the first non-blank value of name among elements matching selector.
func attr(doc *goquery.Document, selector, name string) string {
	var value string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			value = v
			return false
		}
		return true
	})
	return value
}

// firstText returns the first candidate that is not blank, with runs of
// whitespace collapsed.
func firstText(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.Join(strings.Fields(c), " "); s != "" {
			return s
		}
	}
	return ""
}

// resolveURL resolves a possibly relative reference against the page URL.
// Returns empty string if ref is empty or cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
