package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinks(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "parenthesized link with trailing period",
			line: "See (http://example.com/a).",
			want: []string{"http://example.com/a"},
		},
		{
			name: "angle brackets",
			line: "<http://example.com/b>",
			want: []string{"http://example.com/b"},
		},
		{
			name: "angle brackets disable trimming",
			line: "<http://example.com/b.>",
			want: []string{"http://example.com/b."},
		},
		{
			name: "start of line",
			line: "http://example.com/ is first",
			want: []string{"http://example.com/"},
		},
		{
			name: "prose punctuation",
			line: "Visit http://example.com/path, then https://example.org.",
			want: []string{"http://example.com/path", "https://example.org"},
		},
		{
			name: "balanced parenthesis kept",
			line: "http://en.wikipedia.org/wiki/Foo_(bar)",
			want: []string{"http://en.wikipedia.org/wiki/Foo_(bar)"},
		},
		{
			name: "unbalanced closing parenthesis trimmed",
			line: "(see http://en.wikipedia.org/wiki/Foo_(bar))",
			want: []string{"http://en.wikipedia.org/wiki/Foo_(bar)"},
		},
		{
			name: "adjacent markdown links",
			line: "[a](http://x.test/one)[b](http://y.test/two)",
			want: []string{"http://x.test/one", "http://y.test/two"},
		},
		{
			name: "square brackets around link",
			line: "[http://example.com/x]",
			want: []string{"http://example.com/x"},
		},
		{
			name: "balanced square brackets kept",
			line: "http://example.com/a[1]",
			want: []string{"http://example.com/a[1]"},
		},
		{
			name: "full-width parentheses",
			line: "（http://example.com/x）",
			want: []string{"http://example.com/x"},
		},
		{
			name: "fragment stripped",
			line: "http://example.com/page#section.",
			want: []string{"http://example.com/page"},
		},
		{
			name: "quoted attribute",
			line: `<a href="http://example.com/q?a=1&b=2">x</a>`,
			want: []string{"http://example.com/q?a=1&b=2"},
		},
		{
			name: "invalid percent escape ends link",
			line: "http://example.com/a%20b%zz",
			want: []string{"http://example.com/a%20b"},
		},
		{
			name: "trailing colon",
			line: "http://example.com/:",
			want: []string{"http://example.com/"},
		},
		{
			name: "internationalized link",
			line: "http://пример.испытание/путь.",
			want: []string{"http://пример.испытание/путь"},
		},
		{
			name: "two angle-quoted links",
			line: "<http://a.test/x>, <http://b.test/y>",
			want: []string{"http://a.test/x", "http://b.test/y"},
		},
		{
			name: "shell variable host rejected",
			line: "export URL=http://$HOST/path",
			want: nil,
		},
		{
			name: "empty host rejected",
			line: "listening on http://:8080/",
			want: nil,
		},
		{
			name: "no word boundary",
			line: "xhttp://example.com",
			want: nil,
		},
		{
			name: "other schemes ignored",
			line: "mailto:a@b.test ftp://example.com",
			want: nil,
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := All(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("All(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestLinks_Idempotent(t *testing.T) {
	line := "a http://x.test/ok and (http://x.test/404), <http://y.test/z.>"

	first := All(line)
	second := All(line)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated extraction differs (-first +second):\n%s", diff)
	}

	// The sequence itself is restartable.
	seq := Links(line)
	var a, b []string
	for link := range seq {
		a = append(a, link)
	}
	for link := range seq {
		b = append(b, link)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("re-iterated sequence differs (-first +second):\n%s", diff)
	}
	if len(a) != 3 {
		t.Errorf("expected 3 links, got %d: %v", len(a), a)
	}
}

func TestLinks_EarlyStop(t *testing.T) {
	line := "http://a.test/ http://b.test/ http://c.test/"
	var got []string
	for link := range Links(line) {
		got = append(got, link)
		break
	}
	if diff := cmp.Diff([]string{"http://a.test/"}, got); diff != "" {
		t.Errorf("early stop mismatch (-want +got):\n%s", diff)
	}
}

func TestTrim(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		prefix string
		want   string
	}{
		{"trailing punctuation", "http://example.com/a.,;:'", " ", "http://example.com/a"},
		{"quote slash heuristic", "http://example.com/x'/", "'", "http://example.com/x"},
		{"angle prefix untouched", "http://example.com/x).", "<", "http://example.com/x)."},
		{"independent bracket counters", "http://example.com/(a]", "", "http://example.com/(a"},
		{"balanced square then paren", "http://example.com/[a])", " ", "http://example.com/[a]"},
		{"nested closers", "http://example.com/x))", " ", "http://example.com/x"},
		{"nothing to trim", "http://example.com/x", " ", "http://example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trim(tt.link, tt.prefix); got != tt.want {
				t.Errorf("Trim(%q, %q) = %q, want %q", tt.link, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestStripFragment(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"http://example.com/a#b", "http://example.com/a"},
		{"http://example.com/a#b#c", "http://example.com/a"},
		{"http://example.com/a", "http://example.com/a"},
	}

	for _, tt := range tests {
		if got := StripFragment(tt.link); got != tt.want {
			t.Errorf("StripFragment(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
