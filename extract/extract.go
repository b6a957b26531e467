// Package extract finds http and https links embedded in free-form text.
//
// Matching is line oriented and stateless: every call to Links stands alone,
// so the same line always yields the same links.
package extract

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/lukemcguire/zombiecheck/urlutil"
)

// RFC 3986 character classes. Anything ASCII outside of these is "foreign"
// and ends a match. Non-ASCII runes are allowed so IRIs survive extraction.
const (
	genDelims  = ":/?#[]@"
	subDelims  = "!$&'()*+,;="
	unreserved = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._~"
)

var (
	// linkPattern matches a link anywhere in a line.
	linkPattern = compile("")
	// parenLinkPattern is used for links opened by '(' such as markdown
	// [text](http://...) so the closing parenthesis never joins the link.
	parenLinkPattern = compile("()")
)

// compile builds the link regexp with extra treated as foreign as well.
func compile(extra string) *regexp.Regexp {
	allowed := genDelims + subDelims + unreserved
	var class strings.Builder
	class.WriteString(`[^\s\p{Z}`)
	for c := 0; c < 0x80; c++ {
		if strings.IndexByte(allowed, byte(c)) >= 0 && strings.IndexByte(extra, byte(c)) < 0 {
			continue
		}
		fmt.Fprintf(&class, `\x%02x`, c)
	}
	class.WriteString(`]`)
	return regexp.MustCompile(`\bhttps?://(?:` + class.String() + `|%[0-9a-fA-F]{2})+`)
}

// Links returns the links found in line, in order of appearance.
// Each candidate is trimmed of trailing punctuation, stripped of its
// fragment and dropped if it does not name a plausible host.
func Links(line string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for start, end := range spans(line) {
			prefix := prefixOf(line, start)
			link := StripFragment(Trim(line[start:end], prefix))
			if !urlutil.HasPlausibleHost(link) {
				continue
			}
			if !yield(link) {
				return
			}
		}
	}
}

// All collects Links(line) into a slice.
func All(line string) []string {
	var links []string
	for link := range Links(line) {
		links = append(links, link)
	}
	return links
}

// spans yields the [start, end) byte offsets of raw candidates in line.
func spans(line string) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		offset := 0
		for offset < len(line) {
			loc := linkPattern.FindStringIndex(line[offset:])
			if loc == nil {
				return
			}
			start, end := offset+loc[0], offset+loc[1]
			if start > 0 && line[start-1] == '(' {
				if narrow := parenLinkPattern.FindStringIndex(line[start:]); narrow != nil && narrow[0] == 0 {
					end = start + narrow[1]
				}
			}
			if !yield(start, end) {
				return
			}
			offset = end
		}
	}
}

// prefixOf returns the single byte preceding offset, or "" at line start.
func prefixOf(line string, offset int) string {
	if offset == 0 {
		return ""
	}
	return line[offset-1 : offset]
}
