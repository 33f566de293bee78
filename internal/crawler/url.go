package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL cleans a raw URL-list entry before fetching. Listing exports
// wrap entries in quotes or prefix them with @, and localized pages are
// forced to their English variant by rewriting a /vi/ path segment to /en/.
// Normalization is a pure string transform; it never fails.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "@")
	s = strings.Trim(s, `"'`)
	s = strings.Replace(s, "/vi/", "/en/", 1)
	return s
}

// ValidateURL checks that a normalized URL is fetchable: it must parse and
// carry an http or https scheme with a host. Failures are permanent; no
// number of retries makes a malformed URL fetchable.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return NewPermanentError(raw, fmt.Errorf("parse url: %w", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewPermanentError(raw, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return NewPermanentError(raw, fmt.Errorf("missing host"))
	}
	return nil
}
