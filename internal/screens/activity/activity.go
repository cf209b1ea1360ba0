package activity

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/store"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

const pageSize = 100

type activityLoadedMsg struct {
	Events []store.SessionEvent
	Err    error
}

// ActivityScreen lists recent journal entries across interviews.
type ActivityScreen struct {
	eventRepo store.EventRepo
	current   string
	events    []store.SessionEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates an activity screen. current marks the running session's rows.
func New(eventRepo store.EventRepo, current string) *ActivityScreen {
	return &ActivityScreen{
		eventRepo: eventRepo,
		current:   current,
		expanded:  make(map[int]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: pageSize})
		return activityLoadedMsg{Events: events, Err: err}
	}
}

func (s *ActivityScreen) Title() string {
	return "Recent Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading activity...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing recorded yet. Start an assessment!")
	}

	var lines []string
	selectedLine := 0
	for i, e := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
			selectedLine = len(lines)
		}

		line := fmt.Sprintf("%s%s  %s  %-15s %s",
			prefix, e.Timestamp.Format("Jan 02 15:04"), shortID(e.SessionID), e.Action, describe(e))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if e.SessionID == s.current {
			style = style.Foreground(theme.Secondary)
		}
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(line))

		if s.expanded[i] {
			for _, d := range details(e) {
				lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("      "+d))
			}
		}
	}

	// Scroll so the selected row stays visible.
	visible := max(height-2, 1)
	start := 0
	if selectedLine >= visible {
		start = selectedLine - visible + 1
	}
	end := min(start+visible, len(lines))

	return "\n" + layout.Centered(width, strings.Join(lines[start:end], "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// describe renders the one-line summary for an event.
func describe(e store.SessionEvent) string {
	switch e.Action {
	case store.ActionSelectCategory:
		return e.Category
	case store.ActionRate:
		r := assessment.Rating(e.Rating)
		return fmt.Sprintf("Q%d → %s", e.QuestionID, r)
	case store.ActionNotes:
		if e.Notes == "" {
			return fmt.Sprintf("Q%d notes cleared", e.QuestionID)
		}
		return fmt.Sprintf("Q%d notes updated", e.QuestionID)
	case store.ActionAdvance, store.ActionRetreat:
		return fmt.Sprintf("question #%d", e.Index+1)
	default:
		return e.Detail
	}
}

func details(e store.SessionEvent) []string {
	var out []string
	out = append(out, "Session: "+e.SessionID)
	if e.Category != "" {
		out = append(out, "Category: "+e.Category)
	}
	if e.Notes != "" {
		out = append(out, "Notes: "+e.Notes)
	}
	if e.Detail != "" {
		out = append(out, "Detail: "+e.Detail)
	}
	return out
}
