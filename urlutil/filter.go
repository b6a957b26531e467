package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// ResolveReference resolves a possibly-relative ref URL against a base URL.
// If ref is absolute, it is returned as-is. Otherwise it is resolved
// relative to base using net/url.URL.ResolveReference.
func ResolveReference(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse ref URL %q: %w", ref, err)
	}

	resolved := baseURL.ResolveReference(refURL)
	return resolved.String(), nil
}

// HasPlausibleHost reports whether rawURL parses and names a host that could
// be real. Empty hosts, and hostnames containing ':' or '$' outside an IPv6
// literal, are the usual signature of text that merely looks like a link
// (shell variables, templating, "http://:8080").
func HasPlausibleHost(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	if strings.HasPrefix(parsed.Host, "[") {
		return parsed.Hostname() != ""
	}
	hostname := parsed.Hostname()
	return hostname != "" && !strings.ContainsAny(hostname, ":$")
}
