package screen

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/store"
)

// Env is the interview state shared by every screen of one TUI run.
// Screens only touch it from Update, so no locking is needed.
type Env struct {
	Session *assessment.Session

	// Events journals session mutations. Nil disables journaling.
	Events store.EventRepo

	// Debrief is nil when no LLM provider is configured.
	Debrief *debrief.Service

	// ReportDir is where saved markdown reports are written.
	ReportDir string

	// PickCategory builds the category picker. Screens deeper in the flow
	// use it to start over without importing the picker's package.
	PickCategory func() Screen
}

// Status summarises the interview for the header.
func (e *Env) Status() string {
	if e == nil || e.Session == nil {
		return ""
	}
	answered := 0
	for _, a := range e.Session.Answers() {
		if a.Rated() {
			answered++
		}
	}
	return fmt.Sprintf("✓ %d rated", answered)
}

// Record returns a command that journals data for the current session.
func (e *Env) Record(data store.SessionEventData) tea.Cmd {
	if e == nil || e.Events == nil {
		return nil
	}
	data.SessionID = e.Session.ID
	repo := e.Events
	return func() tea.Msg {
		if err := repo.AppendSessionEvent(context.Background(), data); err != nil {
			log.WithError(err).WithField("action", data.Action).Warn("failed to journal session event")
		}
		return nil
	}
}
