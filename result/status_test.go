package result

import (
	"errors"
	"testing"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"ok", HTTPStatus(200), "200 OK"},
		{"not found", HTTPStatus(404), "404 Not Found"},
		{"preserved redirect", Preserved(301, "https://new.test/"), "301 Moved Permanently"},
		{"permanent redirect 308", Preserved(308, "https://new.test/"), "308 Permanent Redirect"},
		{"unknown code", HTTPStatus(599), "599"},
		{"network failure", NetworkFailure(errors.New("connection reset by peer")), "connection reset by peer"},
		{"protocol violation", ProtocolViolation("non-HTTP redirect", false), "non-HTTP redirect"},
		{"blocked", Blocked(), "disallowed by robots.txt"},
		{"empty message falls back to kind", Status{Kind: KindNetworkFailure}, "network_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatusKinds(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{200, KindOK},
		{204, KindOK},
		{299, KindOK},
		{301, KindHTTPError},
		{404, KindHTTPError},
		{503, KindHTTPError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.code).Kind; got != tt.want {
			t.Errorf("HTTPStatus(%d).Kind = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	for _, kind := range Kinds() {
		if kind.String() == "unknown" {
			t.Errorf("Kind %d has no name", int(kind))
		}
	}
	if got := Kind(42).String(); got != "unknown" {
		t.Errorf("Kind(42).String() = %q, want unknown", got)
	}
}

func TestLinkResultString(t *testing.T) {
	loc := Location{Source: "notes.txt", Line: 2}
	tests := []struct {
		name string
		res  LinkResult
		want string
	}{
		{
			name: "http error",
			res:  LinkResult{Location: loc, Link: "http://x.test/404", Status: HTTPStatus(404)},
			want: "notes.txt:2: [404 Not Found] http://x.test/404",
		},
		{
			name: "preserved redirect shows target",
			res:  LinkResult{Location: loc, Link: "http://x.test/old", Status: Preserved(301, "http://x.test/new")},
			want: "notes.txt:2: [301 Moved Permanently] http://x.test/old -> http://x.test/new",
		},
		{
			name: "ok after temporary redirect shows target",
			res:  LinkResult{Location: loc, Link: "http://x.test/tmp", Status: Status{Kind: KindOK, Code: 200, Location: "http://x.test/real"}},
			want: "notes.txt:2: [200 OK] http://x.test/tmp -> http://x.test/real",
		},
		{
			name: "network failure",
			res:  LinkResult{Location: loc, Link: "http://x.test/", Status: NetworkFailure(errors.New("timeout"))},
			want: "notes.txt:2: [timeout] http://x.test/",
		},
		{
			name: "list only",
			res:  LinkResult{Location: loc, Link: "http://x.test/", ListOnly: true},
			want: "http://x.test/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatsRecord(t *testing.T) {
	var stats Stats
	ok := HTTPStatus(200)
	notFound := HTTPStatus(404)

	stats.Record(&ok, nil)
	stats.Record(&notFound, &LinkResult{Link: "http://x.test/404", Status: notFound})
	stats.Record(nil, &LinkResult{Link: "http://x.test/", ListOnly: true})

	if stats.TotalChecked != 3 {
		t.Errorf("TotalChecked = %d, want 3", stats.TotalChecked)
	}
	if stats.Reported != 2 {
		t.Errorf("Reported = %d, want 2", stats.Reported)
	}
	if stats.ProblemCount != 1 {
		t.Errorf("ProblemCount = %d, want 1", stats.ProblemCount)
	}
	if stats.ByKind[KindOK] != 1 || stats.ByKind[KindHTTPError] != 1 {
		t.Errorf("ByKind = %v, want one ok and one http_error", stats.ByKind)
	}
	if !stats.HasProblems() {
		t.Error("HasProblems() = false, want true")
	}
}
