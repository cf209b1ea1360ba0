package question

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
	"github.com/abhisek/assessor/internal/screens/results"
	"github.com/abhisek/assessor/internal/store"
	"github.com/abhisek/assessor/internal/ui/components"
	"github.com/abhisek/assessor/internal/ui/layout"
)

type tab int

const (
	tabQuestion tab = iota
	tabGuidelines
	tabAssessment
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabQuestion:
		return "Question"
	case tabGuidelines:
		return "Guidelines"
	case tabAssessment:
		return "Assessment"
	default:
		return ""
	}
}

const notesLimit = 4000

// QuestionScreen walks the active category one question at a time.
type QuestionScreen struct {
	env    *screen.Env
	tab    tab
	picker components.RatingPicker
	notes  components.TextInput
	errMsg string
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)
var _ screen.InputCapturer = (*QuestionScreen)(nil)

// New creates the question screen for the session's active category.
func New(env *screen.Env) *QuestionScreen {
	s := &QuestionScreen{
		env:   env,
		notes: components.NewTextInput("Notes on the candidate's answer...", notesLimit),
	}
	s.load()
	return s
}

func (s *QuestionScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionScreen) Title() string {
	return string(s.env.Session.Category())
}

// CapturingInput reports whether the notes field owns the keyboard.
func (s *QuestionScreen) CapturingInput() bool {
	return s.notes.Focused()
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	if s.notes.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save notes"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	next := "Next"
	if s.env.Session.IsLast() {
		next = "Complete"
	}
	return []layout.KeyHint{
		{Key: "1-5", Description: "Rate"},
		{Key: "N", Description: "Notes"},
		{Key: "Tab", Description: "Switch tab"},
		{Key: "←", Description: "Previous"},
		{Key: "→", Description: next},
		{Key: "Esc", Description: "Categories"},
	}
}

// load syncs the picker and notes field with the stored answer.
func (s *QuestionScreen) load() {
	q, ok := s.env.Session.CurrentQuestion()
	if !ok {
		return
	}
	ans, _ := s.env.Session.Answer(q.ID)
	s.picker = components.NewRatingPicker(ans.Rating)
	s.notes.SetValue(ans.Notes)
	s.notes.Blur()
	s.errMsg = ""
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.notes.Focused() {
			var cmd tea.Cmd
			s.notes, cmd = s.notes.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.notes.Focused() {
		return s.handleNotesKey(kmsg)
	}

	if picker, picked := s.picker.Update(kmsg); picked {
		return s, s.rate(picker.Value)
	}

	switch kmsg.String() {
	case "tab":
		s.tab = (s.tab + 1) % tabCount
	case "shift+tab":
		s.tab = (s.tab + tabCount - 1) % tabCount
	case "n":
		s.tab = tabAssessment
		return s, s.notes.Focus()
	case "right", "l":
		return s, s.advance()
	case "left", "h":
		return s, s.retreat()
	}
	return s, nil
}

func (s *QuestionScreen) handleNotesKey(kmsg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch kmsg.String() {
	case "enter":
		return s, s.saveNotes()
	case "esc":
		// Discard edits and restore the stored notes.
		if q, ok := s.env.Session.CurrentQuestion(); ok {
			ans, _ := s.env.Session.Answer(q.ID)
			s.notes.SetValue(ans.Notes)
		}
		s.notes.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.notes, cmd = s.notes.Update(kmsg)
	return s, cmd
}

func (s *QuestionScreen) rate(r assessment.Rating) tea.Cmd {
	q, ok := s.env.Session.CurrentQuestion()
	if !ok {
		return nil
	}
	if err := s.env.Session.SetRating(q.ID, r); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.picker.Value = r
	s.errMsg = ""
	return s.env.Record(store.SessionEventData{
		Action:     store.ActionRate,
		QuestionID: q.ID,
		Rating:     int(r),
	})
}

func (s *QuestionScreen) saveNotes() tea.Cmd {
	s.notes.Blur()
	q, ok := s.env.Session.CurrentQuestion()
	if !ok {
		return nil
	}
	notes := s.notes.Value()
	if err := s.env.Session.SetNotes(q.ID, notes); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.env.Record(store.SessionEventData{
		Action:     store.ActionNotes,
		QuestionID: q.ID,
		Notes:      notes,
	})
}

func (s *QuestionScreen) advance() tea.Cmd {
	finished, err := s.env.Session.Advance()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if finished {
		next := results.New(s.env)
		return tea.Batch(
			s.env.Record(store.SessionEventData{
				Action:   store.ActionComplete,
				Category: string(s.env.Session.Category()),
			}),
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)
	}
	s.load()
	return s.env.Record(store.SessionEventData{
		Action: store.ActionAdvance,
		Index:  s.env.Session.Index(),
	})
}

func (s *QuestionScreen) retreat() tea.Cmd {
	if !s.env.Session.Retreat() {
		return nil
	}
	s.load()
	return s.env.Record(store.SessionEventData{
		Action: store.ActionRetreat,
		Index:  s.env.Session.Index(),
	})
}
