package bookmarker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputBytes caps the page content sent to generative extractors.
const DefaultMaxInputBytes = 200_000

// SystemInstruction is the fixed instruction given to generative extractors.
const SystemInstruction = `You are a web scraper bot, tasked with extracting relevant information from an HTML page. Your goal is to
retrieve the title, description, OG image, favicon and header images of the page, as well as generate a summary of the
content and a short list of topical tags.

Return absolute URLs for the favicon and image. Leave a field out rather than guessing when the page does not provide it.`

// BuildExtractionPrompt builds the user prompt for generative extractors.
// When maxBytes is positive the content is cut to at most maxBytes bytes on
// a UTF-8 boundary.
func BuildExtractionPrompt(content string, maxBytes int) string {
	if maxBytes > 0 && len(content) > maxBytes {
		n := maxBytes
		for n > 0 && !utf8.RuneStart(content[n]) {
			n--
		}
		content = content[:n]
	}

	var sb strings.Builder
	sb.WriteString("Scrape the following HTML Content\n\n\n")
	sb.WriteString(content)
	return sb.String()
}
