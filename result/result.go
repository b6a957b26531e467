package result

import (
	"strconv"
	"time"
)

// Location identifies where a link was found.
type Location struct {
	Source string // Input name as given by the caller ("-" for stdin)
	Line   int    // 1-based line number
}

// String renders the location as "source:line".
func (l Location) String() string {
	return l.Source + ":" + strconv.Itoa(l.Line)
}

// LinkResult is one reportable outcome: a link, where it was found and
// what checking it produced.
type LinkResult struct {
	Location Location // Where the link was found
	Link     string   // The link as extracted from the text
	Status   Status   // Outcome of the check (zero value in list-only mode)
	ListOnly bool     // The link was listed without being checked
}

// Problem reports whether the result needs attention from the user.
func (r LinkResult) Problem() bool {
	return !r.ListOnly && !r.Status.OK()
}

// String renders the report line:
//
//	source:line: [status] link
//	source:line: [status] link -> target
//
// List-only results render as the bare link.
func (r LinkResult) String() string {
	if r.ListOnly {
		return r.Link
	}
	line := r.Location.String() + ": [" + r.Status.String() + "] " + r.Link
	if r.Status.Location != "" {
		line += " -> " + r.Status.Location
	}
	return line
}

// Stats contains aggregate statistics for a check run.
type Stats struct {
	TotalChecked int          // Links dispatched to workers
	Reported     int          // Results emitted to the sink
	ProblemCount int          // Reported results that need attention
	SourceErrors int          // Inputs that could not be opened or read
	ByKind       map[Kind]int // Outcome counts over all checked links
	Duration     time.Duration
}

// HasProblems reports whether any reported link needs attention.
func (s *Stats) HasProblems() bool {
	return s != nil && s.ProblemCount > 0
}

// Record updates the counters for one completed link. res is nil when the
// worker suppressed the result.
func (s *Stats) Record(status *Status, res *LinkResult) {
	s.TotalChecked++
	if status != nil {
		if s.ByKind == nil {
			s.ByKind = make(map[Kind]int)
		}
		s.ByKind[status.Kind]++
	}
	if res == nil {
		return
	}
	s.Reported++
	if res.Problem() {
		s.ProblemCount++
	}
}
