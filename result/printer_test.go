package result

import (
	"bytes"
	"testing"
)

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name  string
		stats *Stats
		want  string
	}{
		{
			name:  "nil stats",
			stats: nil,
			want:  "No links checked\n",
		},
		{
			name:  "no problems",
			stats: &Stats{TotalChecked: 10},
			want:  "Checked 10 links, no problems found\n",
		},
		{
			name:  "one problem",
			stats: &Stats{TotalChecked: 3, ProblemCount: 1},
			want:  "Checked 3 links, found 1 problem\n",
		},
		{
			name:  "problems and unreadable inputs",
			stats: &Stats{TotalChecked: 50, ProblemCount: 2, SourceErrors: 1},
			want:  "Checked 50 links, found 2 problems (1 unreadable inputs)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintSummary(&buf, tt.stats)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
