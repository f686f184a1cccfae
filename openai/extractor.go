package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/bookmarker"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// DefaultModel is the OpenAI model used when none is configured.
const DefaultModel = "gpt-4o"

// Ensure Extractor implements bookmarker.Extractor at compile time.
var _ bookmarker.Extractor = (*Extractor)(nil)

// Extractor implements bookmarker.Extractor using OpenAI chat completions
// with a JSON schema response format.
type Extractor struct {
	client        openai.Client
	model         string
	converter     bookmarker.Converter
	maxInputBytes int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the chat model.
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
func NewExtractor(client openai.Client, opts ...Option) *Extractor {
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

// Extract asks the model for the page metadata and validates the answer.
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

	req := BuildParams(e.model, bookmarker.BuildExtractionPrompt(content, e.maxInputBytes))

	resp, err := e.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "openai returned no choices")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "openai refused: %s", msg.Refusal)
	}
	if msg.Content == "" {
		return nil, bookmarker.Errorf(bookmarker.EEXTRACT, "openai returned empty response")
	}

	return bookmarker.ParseMetadata([]byte(msg.Content))
}

// BuildParams returns the chat completion request for a prompt.
func BuildParams(model, prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(bookmarker.SystemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "metadata",
					Description: openai.String("Metadata of a web page"),
					Schema:      MetadataSchema(),
				},
			},
		},
	}
}

// MetadataSchema describes bookmarker.Metadata as JSON schema.
func MetadataSchema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       str,
			"description": str,
			"favicon":     str,
			"image":       str,
			"summary":     str,
			"siteName":    str,
			"video":       str,
			"tags": map[string]any{
				"type":  "array",
				"items": str,
			},
		},
		"required": []string{"title", "description", "tags", "summary"},
	}
}
