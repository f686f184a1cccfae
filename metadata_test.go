package bookmarker_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/bookmarker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts minimal metadata", func(t *testing.T) {
		t.Parallel()

		m := &bookmarker.Metadata{Title: "Hello", Tags: []string{}}

		require.NoError(t, m.Validate())
	})

	t.Run("accepts empty title and blank tags", func(t *testing.T) {
		t.Parallel()

		m := &bookmarker.Metadata{Title: "", Tags: []string{"go", ""}}

		require.NoError(t, m.Validate())
	})

	t.Run("requires non-nil tags", func(t *testing.T) {
		t.Parallel()

		m := &bookmarker.Metadata{Title: "Hello"}

		err := m.Validate()
		require.Error(t, err)
		assert.Equal(t, bookmarker.ESCHEMA, bookmarker.ErrorCode(err))
		assert.Contains(t, bookmarker.ErrorMessage(err), "tags")
	})

	t.Run("nil metadata is invalid", func(t *testing.T) {
		t.Parallel()

		var m *bookmarker.Metadata

		assert.Equal(t, bookmarker.ESCHEMA, bookmarker.ErrorCode(m.Validate()))
	})
}

func TestParseMetadata(t *testing.T) {
	t.Parallel()

	t.Run("parses a complete payload", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{
			"title": "How browsers work",
			"description": "Behind the scenes of modern web browsers",
			"favicon": "https://web.dev/images/favicon.ico",
			"image": "https://web.dev/og.png",
			"tags": ["browsers", "rendering"],
			"summary": "A tour of parsing, layout and painting.",
			"siteName": "web.dev"
		}`)

		m, err := bookmarker.ParseMetadata(data)

		require.NoError(t, err)
		assert.Equal(t, &bookmarker.Metadata{
			Title:       "How browsers work",
			Description: "Behind the scenes of modern web browsers",
			Favicon:     "https://web.dev/images/favicon.ico",
			Image:       "https://web.dev/og.png",
			Tags:        []string{"browsers", "rendering"},
			Summary:     "A tour of parsing, layout and painting.",
			SiteName:    "web.dev",
		}, m)
	})

	t.Run("accepts empty strings and empty tags", func(t *testing.T) {
		t.Parallel()

		m, err := bookmarker.ParseMetadata([]byte(`{"title":"Hello","description":"","tags":[],"summary":""}`))

		require.NoError(t, err)
		assert.Empty(t, m.Description)
		assert.NotNil(t, m.Tags)
		assert.Empty(t, m.Tags)
	})

	t.Run("accepts an empty title", func(t *testing.T) {
		t.Parallel()

		m, err := bookmarker.ParseMetadata([]byte(`{"title":"","description":"","tags":[""],"summary":""}`))

		require.NoError(t, err)
		assert.Empty(t, m.Title)
		assert.Equal(t, []string{""}, m.Tags)
	})

	t.Run("ignores unknown keys", func(t *testing.T) {
		t.Parallel()

		m, err := bookmarker.ParseMetadata([]byte(`{"title":"Hello","description":"World","tags":[],"summary":"","extra":{"a":1}}`))

		require.NoError(t, err)
		assert.Equal(t, "Hello", m.Title)
	})

	t.Run("round trips marshaled metadata", func(t *testing.T) {
		t.Parallel()

		in := &bookmarker.Metadata{Title: "Hello", Description: "World", Tags: []string{}, Video: "https://example.com/v.mp4"}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		out, err := bookmarker.ParseMetadata(data)

		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("rejects payloads that do not match the schema", func(t *testing.T) {
		t.Parallel()

		payloads := map[string]string{
			"not json":            `<html>`,
			"not an object":       `["title"]`,
			"null":                `null`,
			"missing title":       `{"description":"","tags":[],"summary":""}`,
			"missing description": `{"title":"a","tags":[],"summary":""}`,
			"missing tags":        `{"title":"a","description":"","summary":""}`,
			"null tags":           `{"title":"a","description":"","tags":null,"summary":""}`,
			"missing summary":     `{"title":"a","description":"","tags":[]}`,
			"wrong title type":    `{"title":1,"description":"","tags":[],"summary":""}`,
			"wrong tags type":     `{"title":"a","description":"","tags":"go","summary":""}`,
			"wrong image type":    `{"title":"a","description":"","tags":[],"summary":"","image":{"url":"x"}}`,
			"null title":          `{"title":null,"description":"","tags":[],"summary":""}`,
			"null tag":            `{"title":"a","description":"","tags":["go",null],"summary":""}`,
			"null favicon":        `{"title":"a","description":"","tags":[],"summary":"","favicon":null}`,
			"null image":          `{"title":"a","description":"","tags":[],"summary":"","image":null}`,
			"null site name":      `{"title":"a","description":"","tags":[],"summary":"","siteName":null}`,
			"old heuristic shape": `{"title":"a","description":"b","image":"c","site":{"name":"n","url":"u"}}`,
		}

		for name, payload := range payloads {
			_, err := bookmarker.ParseMetadata([]byte(payload))
			require.Error(t, err, name)
			assert.Equal(t, bookmarker.ESCHEMA, bookmarker.ErrorCode(err), name)
		}
	})
}
