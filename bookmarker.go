// Package bookmarker enriches saved bookmarks with page metadata.
// Given a URL it produces a title, description, favicon, image, tags and a
// summary, consulting a cache keyed by the normalized URL before fetching
// and extracting the page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package bookmarker
