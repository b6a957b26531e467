// Package input opens text sources and decodes them to UTF-8.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the source name that selects standard input.
const Stdin = "-"

// ErrUnknownEncoding is returned when an encoding name cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Open returns a reader for the named source. Standard input is returned
// behind a no-op closer so callers can always Close.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// NewReader decodes r from enc into UTF-8. Undecodable input becomes U+FFFD.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == unicode.UTF8 {
		return transform.NewReader(r, unicode.UTF8.NewDecoder())
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// ResolveEncoding maps an encoding name to an Encoding. An empty name is
// taken from the locale environment; plain ASCII locales are treated as
// UTF-8 since it is a strict superset.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = localeCodeset()
	}
	switch strings.ToLower(name) {
	case "", "c", "posix", "ascii", "us-ascii", "ansi_x3.4-1968", "utf-8", "utf8":
		return unicode.UTF8, nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// localeCodeset extracts the codeset from the first set locale variable,
// e.g. "ISO-8859-1" from "de_DE.ISO-8859-1@euro".
func localeCodeset() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if val == "C" || val == "POSIX" {
			return val
		}
		_, codeset, ok := strings.Cut(val, ".")
		if !ok {
			return ""
		}
		codeset, _, _ = strings.Cut(codeset, "@")
		return codeset
	}
	return ""
}
