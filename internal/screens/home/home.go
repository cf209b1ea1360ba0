package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/screens/activity"
	"github.com/abhisek/assessor/internal/screens/results"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

// HomeScreen is the main menu of the interview assessor.
type HomeScreen struct {
	env   *screen.Env
	menu  components.Menu
	rated int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen for env.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}

	items := []components.MenuItem{
		{Label: "Start assessment", Hint: "pick a category", Action: func() tea.Cmd {
			if env.PickCategory == nil {
				return nil
			}
			next := env.PickCategory()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		{Label: "View results", Action: func() tea.Cmd {
			next := results.New(env)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		{Label: "Recent activity", Disabled: env.Events == nil, Action: func() tea.Cmd {
			next := activity.New(env.Events, env.Session.ID)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.tally()
	return h
}

func (h *HomeScreen) tally() {
	h.rated = 0
	for _, a := range h.env.Session.Answers() {
		if a.Rated() {
			h.rated++
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refresh updates the answered count after returning from the interview.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.tally()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderBanner(width, compact))
	sections = append(sections, theme.Subtitle.Render("React developer interview assessment"))
	sections = append(sections, components.Card(h.renderStats(), cw))
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderStats() string {
	c := h.env.Session.Catalog()
	llmStatus := lipgloss.NewStyle().Foreground(theme.TextDim).Render("off")
	if h.env.Debrief != nil {
		llmStatus = lipgloss.NewStyle().Foreground(theme.Success).Render("on")
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	return strings.Join([]string{
		dim.Render("Catalog ") + val.Render(c.Version()),
		dim.Render("Questions ") + val.Render(fmt.Sprint(c.Len())),
		dim.Render("Categories ") + val.Render(fmt.Sprint(len(c.Categories()))),
		dim.Render("Rated ") + val.Render(fmt.Sprint(h.rated)),
		dim.Render("Debrief ") + llmStatus,
	}, "   ")
}
