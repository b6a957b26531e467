package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ToURI converts a raw link (which may be an IRI) into the ASCII-safe URI
// form used for requests and as the cache key.
// Conversion includes:
// - Lowercasing the scheme and host
// - Converting internationalized host names to punycode (IDNA lookup profile)
// - Percent-encoding non-ASCII bytes in the path and query
// - Stripping fragments (#section)
//
// Unlike crawl-style normalization the path is otherwise left alone:
// "/a" and "/a/" are distinct resources for a link checker.
func ToURI(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("URL must have both scheme and host")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)

	host, err := asciiHost(parsed)
	if err != nil {
		return "", fmt.Errorf("normalize host of %q: %w", rawURL, err)
	}
	parsed.Host = host

	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.RawQuery = escapeNonASCII(parsed.RawQuery)

	return parsed.String(), nil
}

// asciiHost returns the lowercased host:port of parsed with any non-ASCII
// labels converted to their A-label form.
func asciiHost(parsed *url.URL) (string, error) {
	hostname := parsed.Hostname()
	port := parsed.Port()

	if strings.Contains(hostname, ":") {
		// IPv6 literal, keep the brackets url.Parse saw.
		return strings.ToLower(parsed.Host), nil
	}

	hostname = strings.ToLower(hostname)
	if !isASCII(hostname) {
		converted, err := idna.Lookup.ToASCII(hostname)
		if err != nil {
			return "", fmt.Errorf("idna: %w", err)
		}
		hostname = converted
	}

	if port != "" {
		return hostname + ":" + port, nil
	}
	return hostname, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// escapeNonASCII percent-encodes every byte >= 0x80 and leaves the rest,
// including existing escapes, untouched.
func escapeNonASCII(s string) string {
	if isASCII(s) {
		return s
	}
	const hex = "0123456789ABCDEF"
	var builder strings.Builder
	builder.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(hex[c>>4])
		builder.WriteByte(hex[c&0x0f])
	}
	return builder.String()
}
