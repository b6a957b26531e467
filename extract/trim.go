package extract

import "strings"

// bracketPair is a closing bracket that may be trimmed and its opener.
type bracketPair struct {
	open, close rune
}

var bracketPairs = []bracketPair{
	{'(', ')'},
	{'[', ']'},
	{'（', '）'},
}

// trailingPunct is stripped from the end of a link unconditionally.
const trailingPunct = ".,:;'"

// Trim removes trailing punctuation that belongs to the surrounding prose
// rather than the link. prefix is the text immediately preceding the link.
//
// A link preceded by '<' is already delimited and is returned unchanged.
// Closing brackets are only removed while they are unbalanced within the
// link itself, so "http://host/wiki/Foo_(bar)" keeps its parenthesis.
func Trim(link, prefix string) string {
	if prefix == "<" {
		return link
	}
	if strings.HasSuffix(link, "'/") {
		return link[:len(link)-2]
	}

	runes := []rune(link)
	excess := make([]int, len(bracketPairs))
	for i, pair := range bracketPairs {
		excess[i] = countRune(runes, pair.close) - countRune(runes, pair.open)
	}

	end := len(runes)
	for end > 1 {
		c := runes[end-1]
		if strings.ContainsRune(trailingPunct, c) {
			end--
			continue
		}
		idx := closerIndex(c)
		if idx < 0 || excess[idx] <= 0 {
			break
		}
		excess[idx]--
		end--
	}
	return string(runes[:end])
}

// StripFragment removes the fragment identifier, which never affects
// whether a resource is reachable.
func StripFragment(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[:i]
	}
	return link
}

func closerIndex(c rune) int {
	for i, pair := range bracketPairs {
		if pair.close == c {
			return i
		}
	}
	return -1
}

func countRune(runes []rune, target rune) int {
	n := 0
	for _, r := range runes {
		if r == target {
			n++
		}
	}
	return n
}
