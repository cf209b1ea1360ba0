package question

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

func (s *QuestionScreen) View(width, height int) string {
	q, ok := s.env.Session.CurrentQuestion()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No active category.")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	// Category and level line.
	cat := s.env.Session.Category()
	left := theme.Label.Render(fmt.Sprintf("%s  %s", cat.Icon(), cat))
	right := components.Badge(string(q.Level), theme.LevelColor(string(q.Level)))
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString(layout.Centered(width, left+strings.Repeat(" ", gap)+right))
	b.WriteString("\n")

	p := s.env.Session.Progress()
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", p.Current, p.Total),
		float64(p.Current)/float64(max(p.Total, 1)),
		false,
		cw,
	)
	b.WriteString(layout.Centered(width, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, s.renderTabs()))
	b.WriteString("\n")

	var body string
	switch s.tab {
	case tabQuestion:
		body = renderQuestion(q, cw)
	case tabGuidelines:
		body = renderGuidelines(q, cw)
	case tabAssessment:
		body = s.renderAssessment(cw)
	}
	b.WriteString(layout.Centered(width, components.Card(body, cw)))
	b.WriteString("\n")

	// Rating is visible from every tab.
	if s.tab != tabAssessment {
		b.WriteString(layout.Centered(width, "Rating  "+s.picker.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, s.renderNav()))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *QuestionScreen) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := range tabCount {
		if t == s.tab {
			parts = append(parts, theme.TabActive.Render(t.String()))
		} else {
			parts = append(parts, theme.TabInactive.Render(t.String()))
		}
	}
	return strings.Join(parts, " ")
}

func renderQuestion(q catalog.Question, cw int) string {
	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw - 6).
		Render(q.Text)
	if q.Description == "" {
		return text
	}
	desc := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw - 6).
		Render(q.Description)
	return text + "\n\n" + desc
}

func renderGuidelines(q catalog.Question, cw int) string {
	section := func(title, body string, c lipgloss.Style) string {
		if body == "" {
			body = "-"
		}
		return c.Bold(true).Render(title) + "\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Width(cw-6).Render(body)
	}
	return strings.Join([]string{
		section("What to look for", q.LookFor, lipgloss.NewStyle().Foreground(theme.Secondary)),
		section("Green flags", q.GreenFlags, lipgloss.NewStyle().Foreground(theme.Success)),
		section("Red flags", q.RedFlags, lipgloss.NewStyle().Foreground(theme.Error)),
	}, "\n\n")
}

func (s *QuestionScreen) renderAssessment(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render("Rating"))
	b.WriteString("\n")
	b.WriteString(s.picker.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Notes"))
	b.WriteString("\n")
	if s.notes.Focused() || s.notes.Value() == "" {
		b.WriteString(s.notes.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(s.notes.Value()))
	}
	if !s.notes.Focused() {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press N to edit notes"))
	}
	return b.String()
}

func (s *QuestionScreen) renderNav() string {
	prev := components.NewButton("◂ Previous", !s.env.Session.IsFirst())
	label := "Next ▸"
	if s.env.Session.IsLast() {
		label = "Complete ✓"
	}
	next := components.NewButton(label, true)
	return lipgloss.JoinHorizontal(lipgloss.Center, prev.View(), "   ", next.View())
}
