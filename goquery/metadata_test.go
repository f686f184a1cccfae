package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/bookmarker"
	"github.com/fwojciec/bookmarker/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prefers OpenGraph tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
	<title>Document Title</title>
	<meta property="og:title" content="OG Title">
	<meta property="og:description" content="OG description">
	<meta property="og:site_name" content="Example">
	<meta property="og:image" content="https://cdn.example.com/cover.png">
	<meta name="twitter:title" content="Twitter Title">
	<meta name="description" content="Plain description">
	<link rel="icon" href="/favicon.ico">
</head>
<body><h1>Heading</h1></body>
</html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com/post/1")

		require.NoError(t, err)
		assert.Equal(t, "OG Title", m.Title)
		assert.Equal(t, "OG description", m.Description)
		assert.Equal(t, "Example", m.SiteName)
		assert.Equal(t, "https://cdn.example.com/cover.png", m.Image)
		assert.Equal(t, "https://example.com/favicon.ico", m.Favicon)
		assert.Equal(t, []string{}, m.Tags)
		assert.Empty(t, m.Summary)
		require.NoError(t, m.Validate())
	})

	t.Run("falls back to twitter card tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
	<title>Document Title</title>
	<meta name="twitter:title" content="Twitter Title">
	<meta name="twitter:description" content="Twitter description">
	<meta name="twitter:image" content="/img/card.jpg">
</head><body></body></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com/a/b")

		require.NoError(t, err)
		assert.Equal(t, "Twitter Title", m.Title)
		assert.Equal(t, "Twitter description", m.Description)
		assert.Equal(t, "https://example.com/img/card.jpg", m.Image)
	})

	t.Run("falls back to document title and meta description", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
	<title>
		Plain   Title
	</title>
	<meta name="description" content="Plain description">
</head><body><h1>Heading</h1></body></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "Plain Title", m.Title)
		assert.Equal(t, "Plain description", m.Description)
		assert.Empty(t, m.Image)
		assert.Empty(t, m.Favicon)
	})

	t.Run("falls back to first heading when title is missing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Only Heading</h1><h1>Second</h1></body></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "Only Heading", m.Title)
		assert.Empty(t, m.Description)
	})

	t.Run("prefers secure OpenGraph image URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
	<meta property="og:title" content="T">
	<meta property="og:image" content="http://example.com/a.png">
	<meta property="og:image:secure_url" content="https://example.com/a.png">
</head></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.png", m.Image)
	})

	t.Run("uses image_src link when no card image exists", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title><link rel="image_src" href="thumb.png"></head></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com/dir/page")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/dir/thumb.png", m.Image)
	})

	t.Run("matches shortcut icon and apple touch icon", func(t *testing.T) {
		t.Parallel()

		shortcut := `<html><head><title>T</title><link rel="shortcut icon" href="/s.ico"></head></html>`
		apple := `<html><head><title>T</title><link rel="apple-touch-icon" href="/apple.png"></head></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), shortcut, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/s.ico", m.Favicon)

		m, err = goquery.NewExtractor().Extract(context.Background(), apple, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/apple.png", m.Favicon)
	})

	t.Run("reads site name from application-name", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title><meta name="application-name" content="My App"></head></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "My App", m.SiteName)
	})

	t.Run("reads video from video element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title></head><body>
	<video><source src="/media/clip.mp4" type="video/mp4"></video>
</body></html>`

		m, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com/watch")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/media/clip.mp4", m.Video)
	})

	t.Run("returns ESCHEMA when no title can be found", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="description" content="no title"></head><body><p>text</p></body></html>`

		_, err := goquery.NewExtractor().Extract(context.Background(), html, "https://example.com")

		require.Error(t, err)
		assert.Equal(t, bookmarker.ESCHEMA, bookmarker.ErrorCode(err))
	})

	t.Run("returns EINVALID for empty HTML", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().Extract(context.Background(), "   ", "https://example.com")

		require.Error(t, err)
		assert.Equal(t, bookmarker.EINVALID, bookmarker.ErrorCode(err))
	})
}
