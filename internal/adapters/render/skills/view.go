// Package skills renders the aggregated skills report for the terminal.
package skills

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	rating   lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	item     lipgloss.Style
	empty    lipgloss.Style
	criteria lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		rating:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		good:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		bad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:    lipgloss.NewStyle().Faint(true),
		criteria: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// Render stringifies a skills report. It only presents state the core
// produced; nothing here talks to the backend.
func Render(report domain.SkillsReport) string {
	return renderView(report, newStyles())
}

func renderView(report domain.SkillsReport, s styles) string {
	lines := []string{
		s.title.Render("Skills Overview"),
		s.header.Render(fmt.Sprintf("sessions analysed: %d", report.SessionsAnalyzed)),
	}

	if report.SessionsAnalyzed == 0 {
		lines = append(lines, s.empty.Render("No analysed sessions yet. Finish an interview with feedback enabled."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if len(report.AvgRatings) > 0 {
		lines = append(lines, s.header.Render("average ratings"))
		for _, criterion := range sortedCriteria(report.AvgRatings) {
			lines = append(lines, fmt.Sprintf("  %s %s",
				s.criteria.Render(criterion),
				s.rating.Render(fmt.Sprintf("%.1f", report.AvgRatings[criterion]))))
		}
	}

	lines = append(lines, renderSkillList(s, s.good.Render("top strengths"), report.TopStrengths)...)
	lines = append(lines, renderSkillList(s, s.bad.Render("top weaknesses"), report.TopWeaknesses)...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSkillList(s styles, heading string, entries []domain.SkillCount) []string {
	if len(entries) == 0 {
		return nil
	}

	lines := []string{heading}
	for _, entry := range entries {
		lines = append(lines, s.item.Render(fmt.Sprintf("  - %s", entry.Name)))
	}

	return lines
}

func sortedCriteria(ratings map[string]float64) []string {
	criteria := make([]string, 0, len(ratings))
	for criterion := range ratings {
		criteria = append(criteria, criterion)
	}
	sort.Strings(criteria)
	return criteria
}
