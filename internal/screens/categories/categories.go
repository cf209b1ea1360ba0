package categories

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/screens/question"
	"github.com/abhisek/assessor/internal/store"
	"github.com/abhisek/assessor/internal/ui/layout"
	"github.com/abhisek/assessor/internal/ui/theme"
)

// CategoriesScreen lets the interviewer choose which topic to walk through.
type CategoriesScreen struct {
	env      *screen.Env
	cats     []catalog.Category
	counts   map[catalog.Category]int
	rated    map[catalog.Category]int
	selected int
	errMsg   string
}

var _ screen.Screen = (*CategoriesScreen)(nil)
var _ screen.KeyHintProvider = (*CategoriesScreen)(nil)

// New creates a category picker over the session's catalog.
func New(env *screen.Env) *CategoriesScreen {
	c := env.Session.Catalog()
	s := &CategoriesScreen{
		env:    env,
		cats:   c.Categories(),
		counts: c.CountByCategory(),
	}
	// Start on the category that is already active, if any.
	for i, cat := range s.cats {
		if cat == env.Session.Category() {
			s.selected = i
		}
	}
	s.tally()
	return s
}

func (s *CategoriesScreen) Init() tea.Cmd {
	return nil
}

// Refresh recounts ratings when the interviewer comes back from a question.
func (s *CategoriesScreen) Refresh() tea.Cmd {
	s.tally()
	return nil
}

func (s *CategoriesScreen) tally() {
	s.rated = make(map[catalog.Category]int)
	c := s.env.Session.Catalog()
	for id, a := range s.env.Session.Answers() {
		if !a.Rated() {
			continue
		}
		if q, ok := c.ByID(id); ok {
			s.rated[q.Category]++
		}
	}
}

func (s *CategoriesScreen) Title() string {
	return "Choose a Category"
}

func (s *CategoriesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CategoriesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.cats)-1 {
			s.selected++
		}
	case "enter":
		return s, s.start()
	}
	return s, nil
}

func (s *CategoriesScreen) start() tea.Cmd {
	if len(s.cats) == 0 {
		return nil
	}
	cat := s.cats[s.selected]
	if err := s.env.Session.SelectCategory(cat); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""

	next := question.New(s.env)
	return tea.Batch(
		s.env.Record(store.SessionEventData{
			Action:   store.ActionSelectCategory,
			Category: string(cat),
		}),
		func() tea.Msg { return router.PushScreenMsg{Screen: next} },
	)
}

func (s *CategoriesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Which area do you want to assess?"))
	b.WriteString("\n\n")

	if len(s.cats) == 0 {
		b.WriteString(layout.Centered(width, theme.Hint.Render("The catalog has no questions.")))
		return b.String()
	}

	nameWidth := 0
	for _, c := range s.cats {
		nameWidth = max(nameWidth, lipgloss.Width(string(c)))
	}

	var rows []string
	for i, c := range s.cats {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		name := string(c) + strings.Repeat(" ", nameWidth-lipgloss.Width(string(c)))
		count := fmt.Sprintf("%d question%s", s.counts[c], plural(s.counts[c]))

		line := style.Render(fmt.Sprintf("%s%s  %s", prefix, c.Icon(), name)) +
			"   " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
		if n := s.rated[c]; n > 0 {
			line += "   " + lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%d rated", n))
		}
		if c == s.env.Session.Category() {
			line += "   " + theme.Hint.Render("(current)")
		}
		rows = append(rows, line)
	}
	b.WriteString(layout.Centered(width, strings.Join(rows, "\n")))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
