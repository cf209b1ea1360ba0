package results

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lines := s.renderLines(cw)

	// Keep the scroll offset inside the content.
	visible := max(height-1, 1)
	maxOffset := max(len(lines)-visible, 0)
	s.offset = min(s.offset, maxOffset)
	end := min(s.offset+visible, len(lines))

	return layout.Centered(width, strings.Join(lines[s.offset:end], "\n"))
}

func (s *ResultsScreen) renderLines(cw int) []string {
	r := s.report
	var lines []string
	add := func(str string) { lines = append(lines, strings.Split(str, "\n")...) }

	add("")
	if r.AnsweredCount == 0 {
		add(theme.Hint.Render("No answers recorded yet. Pick a category to begin."))
		return lines
	}

	overall := lipgloss.NewStyle().
		Foreground(verdictColor(r.Verdict)).
		Bold(true).
		Render(fmt.Sprintf("%.1f / 5  %s", r.OverallRating, r.Verdict))
	rec := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if r.Recommendation != scoring.Recommended {
		rec = rec.Foreground(theme.Error)
	}
	summary := overall + "\n" + rec.Render(string(r.Recommendation)) + "\n" +
		theme.Hint.Render(fmt.Sprintf("%d answered, %d rated", r.AnsweredCount, r.RatedCount))
	add(components.Card(lipgloss.PlaceHorizontal(cw-10, lipgloss.Center, summary), cw))
	add("")

	for _, cs := range r.Categories {
		avg := "not rated"
		if cs.RatedCount > 0 {
			avg = fmt.Sprintf("%.1f/5", cs.AverageRating)
		}
		add(theme.Label.Render(fmt.Sprintf("%s  %s", cs.Category.Icon(), cs.Category)) +
			"  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(avg))
		for _, q := range cs.Questions {
			rating := lipgloss.NewStyle().Foreground(theme.RatingColor(int(q.Rating))).Render(ratingCell(int(q.Rating)))
			text := truncate(fmt.Sprintf("Q%d %s", q.QuestionID, q.Text), cw-8)
			add("  " + rating + "  " + lipgloss.NewStyle().Foreground(theme.Text).Render(text))
		}
		add("")
	}

	if s.debriefing {
		add(theme.Hint.Render("Generating debrief..."))
		add("")
	}
	if d := s.debrief; d != nil {
		add(theme.Title.Render("Interviewer Debrief"))
		add(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(d.Summary))
		bullets := func(title string, items []string) {
			if len(items) == 0 {
				return
			}
			add("")
			add(theme.Label.Render(title))
			for _, it := range items {
				add(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render("• " + it))
			}
		}
		bullets("Strengths", d.Strengths)
		bullets("Concerns", d.Concerns)
		bullets("Suggested follow-ups", d.FollowUps)
		add("")
	}

	if s.savedPath != "" {
		add(lipgloss.NewStyle().Foreground(theme.Success).Render("Saved to " + s.savedPath))
	}
	if s.errMsg != "" {
		add(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return lines
}

func ratingCell(r int) string {
	if r == 0 {
		return "–"
	}
	return fmt.Sprintf("%d", r)
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) > n-1 {
		runes = runes[:n-1]
	}
	return string(runes) + "…"
}

func verdictColor(v scoring.Verdict) color.Color {
	switch v {
	case scoring.VerdictExcellent:
		return theme.Success
	case scoring.VerdictGood:
		return theme.Secondary
	case scoring.VerdictSatisfactory:
		return theme.Warning
	case scoring.VerdictNeedsImprovement:
		return theme.Accent
	default:
		return theme.Error
	}
}
