package bookmarker

import (
	"bytes"
	"encoding/json"
)

// Metadata is the structured summary of a web page attached to a bookmark.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Favicon     string   `json:"favicon,omitempty"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`

	// SiteName is the publisher of the page, when the page names one.
	SiteName string `json:"siteName,omitempty"`

	// Video is the primary video of the page, when it has one.
	Video string `json:"video,omitempty"`
}

// Validate returns an ESCHEMA error if the metadata does not satisfy the
// Metadata schema. Every string field may be empty; tags must be a list,
// possibly empty. Whether a page without a title is usable is left to the
// extractors.
func (m *Metadata) Validate() error {
	if m == nil {
		return Errorf(ESCHEMA, "metadata required")
	}
	if m.Tags == nil {
		return Errorf(ESCHEMA, "metadata tags required")
	}
	return nil
}

// optionalKeys are the Metadata keys that may be absent but, when present,
// must hold a string.
var optionalKeys = []string{"favicon", "image", "siteName", "video"}

// metadataPayload mirrors Metadata with pointer fields so that absent keys
// and null values can be told apart from empty values.
type metadataPayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Favicon     *string    `json:"favicon"`
	Image       *string    `json:"image"`
	Tags        *[]*string `json:"tags"`
	Summary     *string    `json:"summary"`
	SiteName    *string    `json:"siteName"`
	Video       *string    `json:"video"`
}

// ParseMetadata decodes a JSON payload and validates it against the
// Metadata schema. The keys title, description, tags and summary must be
// present and non-null; tags must hold strings only. Optional keys may be
// absent but never null. Unknown keys are ignored so a superset payload is
// accepted. Any failure returns ESCHEMA.
func ParseMetadata(data []byte) (*Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(ESCHEMA, "invalid metadata payload: %v", err)
	}
	for _, key := range optionalKeys {
		if v, ok := raw[key]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, Errorf(ESCHEMA, "metadata %s must be a string", key)
		}
	}

	var p metadataPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, Errorf(ESCHEMA, "invalid metadata payload: %v", err)
	}

	switch {
	case p.Title == nil:
		return nil, Errorf(ESCHEMA, "metadata title required")
	case p.Description == nil:
		return nil, Errorf(ESCHEMA, "metadata description required")
	case p.Tags == nil || *p.Tags == nil:
		return nil, Errorf(ESCHEMA, "metadata tags required")
	case p.Summary == nil:
		return nil, Errorf(ESCHEMA, "metadata summary required")
	}

	tags := make([]string, len(*p.Tags))
	for i, tag := range *p.Tags {
		if tag == nil {
			return nil, Errorf(ESCHEMA, "metadata tag %d must be a string", i)
		}
		tags[i] = *tag
	}

	return &Metadata{
		Title:       *p.Title,
		Description: *p.Description,
		Tags:        tags,
		Summary:     *p.Summary,
		Favicon:     deref(p.Favicon),
		Image:       deref(p.Image),
		SiteName:    deref(p.SiteName),
		Video:       deref(p.Video),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
