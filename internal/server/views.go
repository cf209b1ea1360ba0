package server

import (
	"time"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/debrief"
)

type categoryView struct {
	Name  catalog.Category `json:"name"`
	Slug  string           `json:"slug"`
	Icon  string           `json:"icon"`
	Count int              `json:"count"`
}

type sessionView struct {
	ID        string                    `json:"id"`
	StartedAt time.Time                 `json:"startedAt"`
	Phase     string                    `json:"phase"`
	Category  catalog.Category          `json:"category,omitempty"`
	Index     int                       `json:"index"`
	Progress  assessment.Progress       `json:"progress"`
	Answers   map[int]assessment.Answer `json:"answers"`
}

func newSessionView(s *assessment.Session) sessionView {
	return sessionView{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		Phase:     s.Phase().String(),
		Category:  s.Category(),
		Index:     s.Index(),
		Progress:  s.Progress(),
		Answers:   s.Answers(),
	}
}

type currentView struct {
	Question catalog.Question    `json:"question"`
	Answer   assessment.Answer   `json:"answer"`
	IsFirst  bool                `json:"isFirst"`
	IsLast   bool                `json:"isLast"`
	Progress assessment.Progress `json:"progress"`
}

type advanceView struct {
	Finished bool        `json:"finished"`
	Session  sessionView `json:"session"`
}

type retreatView struct {
	Moved   bool        `json:"moved"`
	Session sessionView `json:"session"`
}

type debriefView struct {
	Debrief  *debrief.Debrief `json:"debrief"`
	Markdown string           `json:"markdown"`
}

type selectCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type ratingRequest struct {
	Rating *int `json:"rating" validate:"required"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=4000"`
}
