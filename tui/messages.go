package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/result"
)

// ProgressMsg reports progress after one completed link.
type ProgressMsg struct {
	Checked  int
	Problems int
	Link     string
}

// DoneMsg signals the run has completed.
type DoneMsg struct {
	Results []result.LinkResult
	Stats   *result.Stats
	Err     error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields no message; completion arrives as
// DoneMsg from the run command.
func waitForProgress(ch <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{
			Checked:  evt.Checked,
			Problems: evt.Problems,
			Link:     evt.Link,
		}
	}
}
