// Package sessions renders the collapsed past-session listing.
package sessions

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	session lipgloss.Style
	detail  lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		session: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}

// Render stringifies collapsed session rows, newest first, as produced by
// the listing service.
func Render(rows []domain.SessionSummary) string {
	return renderView(rows, newStyles())
}

func renderView(rows []domain.SessionSummary, s styles) string {
	lines := []string{
		s.title.Render("Past Interview Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(rows))),
	}

	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("No interview sessions found. Start one with `iv interview`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range rows {
		when := time.Unix(row.Ts, 0).Format("2006-01-02 15:04")
		lines = append(lines,
			s.session.Render(fmt.Sprintf("%s — %s", row.Category, row.Difficulty)),
			s.detail.Render(fmt.Sprintf("  %s  session %s", when, row.SessionID)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
