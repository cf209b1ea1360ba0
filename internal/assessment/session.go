package assessment

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/assessor/internal/catalog"
)

// Phase is the state of an assessment session.
type Phase int

const (
	PhaseNoCategory Phase = iota // Nothing selected yet
	PhaseActive                  // Walking a category's questions
	PhaseCompleted               // Advanced past the last question
)

func (p Phase) String() string {
	switch p {
	case PhaseNoCategory:
		return "no-category"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Session is the mutable state of one interview. It is owned by a single
// control flow; callers sharing a Session must serialise access themselves.
type Session struct {
	// ID identifies the session in the journal and over HTTP.
	ID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	catalog   *catalog.Catalog
	phase     Phase
	category  catalog.Category
	questions []catalog.Question
	index     int

	// answers grows monotonically; entries are updated in place.
	answers map[int]Answer
}

// New creates a session over the given catalog with a fresh ID.
func New(c *catalog.Catalog) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		catalog:   c,
		answers:   make(map[int]Answer),
	}
}

// Catalog returns the catalog the session draws questions from.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Phase returns the current state.
func (s *Session) Phase() Phase { return s.phase }

// Category returns the selected category, or "" before any selection.
func (s *Session) Category() catalog.Category { return s.category }

// Index returns the 0-based position in the question list.
func (s *Session) Index() int { return s.index }

// Questions returns the active question list.
func (s *Session) Questions() []catalog.Question {
	return slices.Clone(s.questions)
}

// SelectCategory makes c the active category. Valid from any phase.
// Existing answers are kept so a category can be revisited.
func (s *Session) SelectCategory(c catalog.Category) error {
	qs := s.catalog.ByCategory(c)
	if len(qs) == 0 {
		return fmt.Errorf("select %q: %w", c, ErrEmptyCategory)
	}
	s.category = c
	s.questions = qs
	s.index = 0
	s.phase = PhaseActive
	return nil
}

// SetRating records a rating for a question in the active list.
// A rejected call leaves any previous rating untouched.
func (s *Session) SetRating(questionID int, r Rating) error {
	if err := s.checkMutable(questionID); err != nil {
		return err
	}
	if !r.Valid() {
		return fmt.Errorf("rate question %d with %d: %w", questionID, int(r), ErrInvalidRating)
	}
	a := s.answers[questionID]
	a.Rating = r
	s.answers[questionID] = a
	return nil
}

// SetNotes records notes for a question in the active list.
// An empty string clears the notes but keeps the rating. Empty notes for a
// question with no answer are a no-op, so no blank answer is recorded.
func (s *Session) SetNotes(questionID int, notes string) error {
	if err := s.checkMutable(questionID); err != nil {
		return err
	}
	a, ok := s.answers[questionID]
	if !ok && notes == "" {
		return nil
	}
	a.Notes = notes
	s.answers[questionID] = a
	return nil
}

func (s *Session) checkMutable(questionID int) error {
	if s.phase != PhaseActive {
		return fmt.Errorf("question %d: %w", questionID, ErrNoActiveCategory)
	}
	if !s.inList(questionID) {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	return nil
}

func (s *Session) inList(questionID int) bool {
	return slices.ContainsFunc(s.questions, func(q catalog.Question) bool {
		return q.ID == questionID
	})
}

// Advance moves to the next question. On the last question it completes the
// category instead and returns finished=true.
func (s *Session) Advance() (finished bool, err error) {
	if s.phase != PhaseActive {
		return false, fmt.Errorf("advance: %w", ErrNoActiveCategory)
	}
	if s.index < len(s.questions)-1 {
		s.index++
		return false, nil
	}
	s.phase = PhaseCompleted
	return true, nil
}

// Retreat moves to the previous question. It returns false, changing
// nothing, when there is no previous question or no active category.
func (s *Session) Retreat() bool {
	if s.phase != PhaseActive || s.index == 0 {
		return false
	}
	s.index--
	return true
}

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (catalog.Question, bool) {
	if len(s.questions) == 0 {
		return catalog.Question{}, false
	}
	return s.questions[s.index], true
}

// IsFirst reports whether the current question is the first in the list.
func (s *Session) IsFirst() bool {
	return s.index == 0
}

// IsLast reports whether the current question is the last in the list.
func (s *Session) IsLast() bool {
	return len(s.questions) > 0 && s.index == len(s.questions)-1
}

// Answer returns the recorded answer for a question, if any.
func (s *Session) Answer(questionID int) (Answer, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// Answers returns a copy of every recorded answer, across all categories.
func (s *Session) Answers() map[int]Answer {
	return maps.Clone(s.answers)
}

// Progress describes the position within the active category.
type Progress struct {
	Current  int `json:"current"` // 1-based
	Total    int `json:"total"`
	Answered int `json:"answered"` // questions in the list with a rating
}

// Percent returns the position as a fraction in [0, 1].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total)
}

// Progress reports the current position and how many active questions are rated.
func (s *Session) Progress() Progress {
	p := Progress{Total: len(s.questions)}
	if p.Total > 0 {
		p.Current = s.index + 1
	}
	for _, q := range s.questions {
		if s.answers[q.ID].Rated() {
			p.Answered++
		}
	}
	return p
}
