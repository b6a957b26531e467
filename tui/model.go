// Package tui provides the Bubble Tea terminal UI for zombiecheck,
// displaying live progress and a styled summary of problem links.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/result"
)

// progressBuffer sizes the event channel between the run and the view.
const progressBuffer = 64

// Model is the Bubble Tea model for a checking run.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	checker    *checker.Checker
	sources    []string
	spinner    spinner.Model
	progressCh chan checker.Event

	checked  int
	problems int
	current  string
	quitting bool
	done     bool
	results  []result.LinkResult
	stats    *result.Stats
	err      error
	width    int
}

// NewModel creates a model that runs a checker built from cfg over sources.
func NewModel(ctx context.Context, cancel context.CancelFunc, cfg checker.Config, sources []string) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	progressCh := make(chan checker.Event, progressBuffer)
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		checker:    checker.New(cfg, progressCh),
		sources:    sources,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

// startRun returns a tea.Cmd that runs the checker and sends DoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		defer close(m.progressCh)
		var sink result.Collector
		stats, err := m.checker.Run(m.ctx, m.sources, &sink)
		if err != nil {
			err = fmt.Errorf("check links: %w", err)
		}
		return DoneMsg{Results: sink.Results, Stats: stats, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.checked = msg.Checked
		m.problems = msg.Problems
		if msg.Link != "" {
			m.current = msg.Link
		}
		return m, waitForProgress(m.progressCh)

	case DoneMsg:
		m.done = true
		m.results = msg.Results
		m.stats = msg.Stats
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.stats != nil {
		view := RenderSummary(m.results, m.stats)
		if m.err != nil {
			view += errorStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		return view
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	verb := "Checking"
	if m.quitting {
		verb = "Stopping"
	}
	return fmt.Sprintf("%s %s... checked %d, problems %d\n%s\n",
		m.spinner.View(), verb, m.checked, m.problems,
		dimStyle.Render("  "+truncate(m.current, m.width-2)))
}

// HasProblems reports whether the run reported any problem links.
func (m Model) HasProblems() bool {
	return m.stats.HasProblems()
}

// Stats returns the run statistics, or nil if the run has not finished.
func (m Model) Stats() *result.Stats {
	return m.stats
}

// Err returns the error the run ended with.
func (m Model) Err() error {
	return m.err
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
