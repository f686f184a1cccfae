package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/bookmarker"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Extractor implements bookmarker.Extractor at compile time.
var _ bookmarker.Extractor = (*Extractor)(nil)

// Extractor implements bookmarker.Extractor using Google Gemini structured
// output.
type Extractor struct {
	client        *genai.Client
	model         string
	converter     bookmarker.Converter
	maxInputBytes int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the Gemini model.
func WithModel(model string) Option {
	return func(e *Extractor) {
		if model != "" {
			e.model = model
		}
	}
}

// WithConverter converts page HTML with c before it is sent to the model.
func WithConverter(c bookmarker.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// WithMaxInputBytes caps the page content sent to the model.
// Zero or less disables the cap.
func WithMaxInputBytes(n int) Option {
	return func(e *Extractor) {
		e.maxInputBytes = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(client *genai.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client:        client,
		model:         DefaultModel,
		maxInputBytes: bookmarker.DefaultMaxInputBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks Gemini for the page metadata and validates the answer.
func (e *Extractor) Extract(ctx context.Context, html string, _ string) (*bookmarker.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, bookmarker.Errorf(bookmarker.EINVALID, "empty HTML input")
	}

	content := html
	if e.converter != nil {
		md, err := e.converter.Convert(html)
		if err != nil {
			return nil, fmt.Errorf("convert page: %w", err)
		}
		content = md
	}

	prompt := bookmarker.BuildExtractionPrompt(content, e.maxInputBytes)

	result, err := e.client.Models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if result == nil {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "gemini returned nil result")
	}

	text := result.Text()
	if text == "" {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "gemini returned empty response")
	}

	return bookmarker.ParseMetadata([]byte(text))
}

// BuildConfig returns the GenerateContentConfig for metadata extraction.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: bookmarker.SystemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   MetadataSchema(),
	}
}

// MetadataSchema describes bookmarker.Metadata for structured output.
func MetadataSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       str("Title of the page"),
			"description": str("Description of the page"),
			"favicon":     str("Absolute URL of the favicon"),
			"image":       str("Absolute URL of the OG image or header image"),
			"summary":     str("Short summary of the page content"),
			"siteName":    str("Name of the site that published the page"),
			"video":       str("Absolute URL of the primary video"),
			"tags": {
				Type:        genai.TypeArray,
				Description: "Topical tags for the page",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "description", "tags", "summary"},
	}
}
