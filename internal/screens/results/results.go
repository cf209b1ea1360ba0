package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/report"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/store"
	"github.com/abhisek/assessor/internal/ui/layout"
)

const debriefPollInterval = 250 * time.Millisecond

type reportSavedMsg struct {
	Path string
	Err  error
}

type debriefPollMsg struct{}

// ResultsScreen shows the aggregated report for every answer so far.
type ResultsScreen struct {
	env    *screen.Env
	report scoring.Report

	debrief    *debrief.Debrief
	debriefing bool
	ticket     debrief.Ticket

	savedPath string
	errMsg    string
	offset    int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen for the shared session.
func New(env *screen.Env) *ResultsScreen {
	s := &ResultsScreen{env: env}
	s.aggregate()
	return s
}

func (s *ResultsScreen) aggregate() {
	s.report = scoring.Aggregate(s.env.Session.Catalog(), s.env.Session.Answers())
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

// Refresh re-scores in case answers changed beneath this screen. A debrief
// of the previous numbers, shown or still running, is dropped with them.
func (s *ResultsScreen) Refresh() tea.Cmd {
	s.aggregate()
	s.debrief = nil
	s.debriefing = false
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Assessment Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "S", Description: "Save report"},
	}
	if s.env.Debrief != nil {
		hints = append(hints, layout.KeyHint{Key: "D", Description: "Debrief"})
	}
	return append(hints,
		layout.KeyHint{Key: "C", Description: "Another category"},
		layout.KeyHint{Key: "↑↓", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportSavedMsg:
		if msg.Err != nil {
			s.errMsg = fmt.Sprintf("Could not save report: %v", msg.Err)
			return s, nil
		}
		s.savedPath = msg.Path
		s.errMsg = ""
		return s, s.env.Record(store.SessionEventData{
			Action: store.ActionReport,
			Detail: msg.Path,
		})

	case debriefPollMsg:
		return s, s.pollDebrief()

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			return s, s.save()
		case "d":
			return s, s.requestDebrief()
		case "c":
			if s.env.PickCategory == nil {
				return s, nil
			}
			next := s.env.PickCategory()
			return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
		case "up", "k":
			s.offset = max(s.offset-1, 0)
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

// save writes the markdown report, plus any debrief, in the background.
func (s *ResultsScreen) save() tea.Cmd {
	text := report.ToText(s.report)
	if s.debrief != nil {
		text += "\n" + s.debrief.Markdown()
	}
	dir := s.env.ReportDir
	if dir == "" {
		dir = "."
	}
	sessionID := s.env.Session.ID
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return reportSavedMsg{Err: err}
		}
		path, err := report.WriteFile(dir, time.Now(), sessionID, text)
		if err != nil {
			return reportSavedMsg{Err: err}
		}
		log.WithField("path", path).Info("report saved")
		return reportSavedMsg{Path: path}
	}
}

func (s *ResultsScreen) requestDebrief() tea.Cmd {
	switch {
	case s.env.Debrief == nil:
		s.errMsg = "No LLM provider is configured."
		return nil
	case s.debriefing:
		return nil
	case s.report.RatedCount == 0:
		s.errMsg = "Rate at least one answer before asking for a debrief."
		return nil
	}
	s.debriefing = true
	s.errMsg = ""
	s.ticket = s.env.Debrief.Request(context.Background(), s.report)
	return pollDebriefCmd()
}

func (s *ResultsScreen) pollDebrief() tea.Cmd {
	if !s.debriefing || s.env.Debrief == nil {
		return nil
	}
	res, ok := s.env.Debrief.Consume(s.ticket)
	if !ok {
		return pollDebriefCmd()
	}
	s.debriefing = false
	if errors.Is(res.Err, debrief.ErrSuperseded) {
		s.errMsg = "Debrief was replaced by a newer request; press D to ask again."
		return nil
	}
	if res.Err != nil {
		log.WithError(res.Err).Warn("debrief failed")
		s.errMsg = fmt.Sprintf("Debrief failed: %v", res.Err)
		return nil
	}
	s.debrief = res.Debrief
	return s.env.Record(store.SessionEventData{Action: store.ActionDebrief})
}

func pollDebriefCmd() tea.Cmd {
	return tea.Tick(debriefPollInterval, func(time.Time) tea.Msg {
		return debriefPollMsg{}
	})
}
