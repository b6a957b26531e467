package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/zombiecheck/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	linkStyle        = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// categoryOrder is the display order for problem categories, most
// actionable first.
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryRedirectLoop,
	result.CategoryRedirect,
	result.CategoryBlocked,
	result.CategoryUnknown,
}

// RenderSummary produces a Lip Gloss styled summary: one table per problem
// category, rows in input order, followed by the totals.
func RenderSummary(results []result.LinkResult, stats *result.Stats) string {
	if stats == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if !stats.HasProblems() {
		builder.WriteString(successStyle.Render("No problem links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d links in %s",
			stats.TotalChecked,
			stats.Duration.Round(time.Millisecond),
		)))
		builder.WriteString(sourceErrorNote(stats))
		builder.WriteString("\n")
		return builder.String()
	}

	grouped := make(map[result.ErrorCategory][]result.LinkResult)
	for _, res := range results {
		if !res.Problem() {
			continue
		}
		cat := res.Status.Category
		if cat == "" {
			cat = result.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], res)
	}

	for _, cat := range categoryOrder {
		links := grouped[cat]
		if len(links) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(links))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(links))
		for _, res := range links {
			link := res.Link
			if res.Status.Location != "" {
				link += " -> " + res.Status.Location
			}
			rows = append(rows, []string{link, res.Status.String(), res.Location.String()})
		}

		catTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Link", "Status", "Found At").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusErrorStyle
				}
				return linkStyle
			}).
			Rows(rows...)

		builder.WriteString(catTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d problem links out of %d checked (%s)",
		stats.ProblemCount,
		stats.TotalChecked,
		stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString(sourceErrorNote(stats))
	builder.WriteString("\n")

	return builder.String()
}

func sourceErrorNote(stats *result.Stats) string {
	if stats.SourceErrors == 0 {
		return ""
	}
	return errorStyle.Render(fmt.Sprintf(" (%d unreadable inputs)", stats.SourceErrors))
}
