package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/screens/categories"
	"github.com/abhisek/assessor/internal/screens/home"
	"github.com/abhisek/assessor/internal/store"
	"github.com/abhisek/assessor/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Catalog   *catalog.Catalog
	EventRepo store.EventRepo
	Debrief   *debrief.Service
	ReportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	env    *screen.Env
	width  int
	height int
}

// newAppModel starts one interview session and opens the home screen.
func newAppModel(opts Options) AppModel {
	c := opts.Catalog
	if c == nil {
		c = catalog.Default()
	}
	env := &screen.Env{
		Session:   assessment.New(c),
		Events:    opts.EventRepo,
		Debrief:   opts.Debrief,
		ReportDir: opts.ReportDir,
	}
	env.PickCategory = func() screen.Screen { return categories.New(env) }

	return AppModel{
		router: router.New(home.New(env)),
		env:    env,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.env.Record(store.SessionEventData{Action: store.ActionCreate})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ic, ok := m.router.Active().(screen.InputCapturer); ok && ic.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.env.Status(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
