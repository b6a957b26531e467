package result

import (
	"fmt"
	"io"
)

// PrintSummary writes a one-line summary of a run to w.
func PrintSummary(w io.Writer, stats *Stats) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if stats == nil {
		writef("No links checked\n")
		return
	}
	switch stats.ProblemCount {
	case 0:
		writef("Checked %d links, no problems found", stats.TotalChecked)
	case 1:
		writef("Checked %d links, found 1 problem", stats.TotalChecked)
	default:
		writef("Checked %d links, found %d problems", stats.TotalChecked, stats.ProblemCount)
	}
	if stats.SourceErrors > 0 {
		writef(" (%d unreadable inputs)", stats.SourceErrors)
	}
	writef("\n")
}
