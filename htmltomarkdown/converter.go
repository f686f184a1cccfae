package htmltomarkdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bookmarker"
)

// Ensure Converter implements bookmarker.Converter at compile time.
var _ bookmarker.Converter = (*Converter)(nil)

// Converter turns a page into Markdown for generative extractors. The
// document head is not part of the Markdown body, so its title, meta tags
// and icon links are kept in a front matter block ahead of the body.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", bookmarker.Errorf(bookmarker.EINVALID, "empty HTML input")
	}

	body, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}

	head := frontMatter(html)
	if head == "" {
		return body, nil
	}
	return head + "\n" + body, nil
}

// frontMatter renders head metadata as "key: value" lines between ---
// fences. Returns empty string if the head has none.
func frontMatter(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var lines []string
	add := func(key, value string) {
		value = strings.Join(strings.Fields(value), " ")
		if key == "" || value == "" {
			return
		}
		lines = append(lines, key+": "+value)
	}

	add("title", doc.Find("head title").First().Text())
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		key := s.AttrOr("property", s.AttrOr("name", s.AttrOr("itemprop", "")))
		add(strings.ToLower(key), s.AttrOr("content", ""))
	})
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		if strings.Contains(rel, "icon") || rel == "image_src" || rel == "canonical" {
			add("link "+rel, s.AttrOr("href", ""))
		}
	})

	if len(lines) == 0 {
		return ""
	}
	return "---\n" + strings.Join(lines, "\n") + "\n---\n"
}
