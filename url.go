package bookmarker

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the cache key for a URL: everything from the first
// "?" is dropped, then trailing slashes are removed. Scheme and host are
// left untouched, so "WWW.example.com" and "example.com" are distinct keys.
// NormalizeURL is idempotent.
func NormalizeURL(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawURL = rawURL[:i]
	}
	return strings.TrimRight(rawURL, "/")
}

// ValidateURL returns EINVALID unless rawURL is an absolute http or https
// URL with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Errorf(EINVALID, "invalid url %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "url host required")
	}
	return nil
}
