package assessment

import (
	"errors"
	"testing"

	"github.com/abhisek/assessor/internal/catalog"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(catalog.Default())
}

func TestNew(t *testing.T) {
	s := newSession(t)
	if s.ID == "" {
		t.Error("expected a session ID")
	}
	if s.Phase() != PhaseNoCategory {
		t.Errorf("got phase %v, want %v", s.Phase(), PhaseNoCategory)
	}
	if _, ok := s.CurrentQuestion(); ok {
		t.Error("expected no current question before selection")
	}
	if New(catalog.Default()).ID == s.ID {
		t.Error("session IDs should be unique")
	}
}

func TestSelectCategory(t *testing.T) {
	s := newSession(t)
	if err := s.SelectCategory(catalog.CategoryFundamentals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phase() != PhaseActive {
		t.Errorf("got phase %v, want %v", s.Phase(), PhaseActive)
	}
	if got := len(s.Questions()); got != 3 {
		t.Errorf("got %d questions, want 3", got)
	}
	q, ok := s.CurrentQuestion()
	if !ok || q.ID != 1 {
		t.Errorf("got current question %d (ok=%v), want 1", q.ID, ok)
	}
}

func TestSelectCategory_Empty(t *testing.T) {
	c, err := catalog.Load([]byte(`version: v1.0.0
questions:
  - {id: 1, category: Testing & Quality Assurance, level: Beginner, text: a, description: b}
`))
	if err != nil {
		t.Fatal(err)
	}
	s := New(c)
	err = s.SelectCategory(catalog.CategoryLeadership)
	if !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("got %v, want ErrEmptyCategory", err)
	}
	if s.Phase() != PhaseNoCategory {
		t.Errorf("failed selection changed phase to %v", s.Phase())
	}

	err = s.SelectCategory(catalog.Category("Cooking"))
	if !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("unknown category: got %v, want ErrEmptyCategory", err)
	}
}

func TestSelectCategory_ResetsIndexKeepsAnswers(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)
	if err := s.SetRating(1, 4); err != nil {
		t.Fatal(err)
	}
	mustAdvance(t, s)

	mustSelect(t, s, catalog.CategoryArchitecture)
	if s.Index() != 0 {
		t.Errorf("got index %d after reselect, want 0", s.Index())
	}
	mustSelect(t, s, catalog.CategoryFundamentals)
	if s.Index() != 0 {
		t.Errorf("got index %d after reselect, want 0", s.Index())
	}
	a, ok := s.Answer(1)
	if !ok || a.Rating != 4 {
		t.Errorf("answer for question 1 lost across category switch: %+v", a)
	}
}

func TestSetRating_RejectsOutOfRange(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)
	if err := s.SetRating(1, 3); err != nil {
		t.Fatal(err)
	}
	for _, r := range []Rating{-1, 0, 6, 100} {
		err := s.SetRating(1, r)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("SetRating(1, %d): got %v, want ErrInvalidRating", r, err)
		}
		if a, _ := s.Answer(1); a.Rating != 3 {
			t.Errorf("rejected rating %d changed stored rating to %d", r, a.Rating)
		}
	}
	for r := MinRating; r <= MaxRating; r++ {
		if err := s.SetRating(1, r); err != nil {
			t.Errorf("SetRating(1, %d): unexpected error %v", r, err)
		}
	}
}

func TestSetRating_UnknownQuestion(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)
	before := s.Answers()

	err := s.SetRating(999, 3)
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("got %v, want ErrUnknownQuestion", err)
	}
	// question 3 exists but belongs to another category
	if err := s.SetNotes(3, "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("SetNotes outside list: got %v, want ErrUnknownQuestion", err)
	}
	if len(s.Answers()) != len(before) {
		t.Error("answers changed after rejected mutation")
	}
}

func TestMutations_RequireActiveCategory(t *testing.T) {
	s := newSession(t)
	if err := s.SetRating(1, 3); !errors.Is(err, ErrNoActiveCategory) {
		t.Errorf("SetRating before select: got %v", err)
	}
	if err := s.SetNotes(1, "n"); !errors.Is(err, ErrNoActiveCategory) {
		t.Errorf("SetNotes before select: got %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrNoActiveCategory) {
		t.Errorf("Advance before select: got %v", err)
	}
	if s.Retreat() {
		t.Error("Retreat before select should be rejected")
	}
}

func TestRatingAndNotes_Independent(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)

	if err := s.SetRating(2, 5); err != nil {
		t.Fatal(err)
	}
	if err := s.SetNotes(2, "solid answer"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRating(2, 2); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Answer(2)
	if a.Rating != 2 || a.Notes != "solid answer" {
		t.Errorf("got %+v, want rating 2 with notes kept", a)
	}

	if err := s.SetNotes(2, ""); err != nil {
		t.Fatal(err)
	}
	a, _ = s.Answer(2)
	if a.Rating != 2 || a.HasNotes() {
		t.Errorf("got %+v, want rating kept and notes cleared", a)
	}
	if s.Index() != 0 {
		t.Errorf("mutations moved index to %d", s.Index())
	}
}

func TestSetNotes_EmptyOnUnansweredRecordsNothing(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)

	if err := s.SetNotes(1, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Answer(1); ok {
		t.Error("empty notes on an unanswered question should not create an answer")
	}
	if n := len(s.Answers()); n != 0 {
		t.Errorf("answers = %d, want 0", n)
	}

	if err := s.SetNotes(1, "partial"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetNotes(1, ""); err != nil {
		t.Fatal(err)
	}
	if a, ok := s.Answer(1); !ok || a.HasNotes() {
		t.Errorf("got %+v, %v; want existing entry kept with notes cleared", a, ok)
	}
}

func TestAdvance_CompletesExactlyOnce(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)
	n := len(s.Questions())

	finishedCount := 0
	for i := 0; i < n; i++ {
		finished, err := s.Advance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if finished {
			finishedCount++
		}
		if s.Index() > n-1 {
			t.Fatalf("index %d overshot list of %d", s.Index(), n)
		}
	}
	if finishedCount != 1 {
		t.Errorf("got %d completions, want 1", finishedCount)
	}
	if s.Phase() != PhaseCompleted {
		t.Errorf("got phase %v, want completed", s.Phase())
	}
	if _, err := s.Advance(); !errors.Is(err, ErrNoActiveCategory) {
		t.Errorf("advance after completion: got %v", err)
	}
	if q, ok := s.CurrentQuestion(); !ok || q.ID != 4 {
		t.Errorf("current question after completion = %d (ok=%v), want 4", q.ID, ok)
	}
}

func TestRetreat(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryFundamentals)

	if s.Retreat() {
		t.Error("retreat at index 0 should be rejected")
	}
	if s.Index() != 0 {
		t.Errorf("rejected retreat moved index to %d", s.Index())
	}

	if err := s.SetRating(1, 4); err != nil {
		t.Fatal(err)
	}
	before := s.Answers()
	mustAdvance(t, s)
	if !s.Retreat() {
		t.Fatal("retreat after advance should succeed")
	}
	if s.Index() != 0 {
		t.Errorf("got index %d, want 0", s.Index())
	}
	after := s.Answers()
	if len(after) != len(before) || after[1] != before[1] {
		t.Errorf("advance+retreat changed answers: %v -> %v", before, after)
	}
}

func TestSingleQuestionCategory(t *testing.T) {
	s := newSession(t)
	mustSelect(t, s, catalog.CategoryTesting)
	if got := len(s.Questions()); got != 1 {
		t.Fatalf("got %d questions, want 1", got)
	}
	if !s.IsFirst() || !s.IsLast() {
		t.Error("single question should be both first and last")
	}
	if s.Retreat() {
		t.Error("retreat before advance should be rejected")
	}
	finished, err := s.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if !finished || s.Phase() != PhaseCompleted {
		t.Errorf("got finished=%v phase=%v, want completed", finished, s.Phase())
	}
}

func TestProgress(t *testing.T) {
	s := newSession(t)
	if p := s.Progress(); p.Total != 0 || p.Current != 0 || p.Percent() != 0 {
		t.Errorf("got %+v before selection, want zero", p)
	}
	mustSelect(t, s, catalog.CategoryFundamentals)
	if err := s.SetRating(2, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetNotes(4, "notes only"); err != nil {
		t.Fatal(err)
	}
	mustAdvance(t, s)
	p := s.Progress()
	if p.Current != 2 || p.Total != 3 || p.Answered != 1 {
		t.Errorf("got %+v, want {Current:2 Total:3 Answered:1}", p)
	}
}

func TestRating_Description(t *testing.T) {
	tests := []struct {
		r    Rating
		want string
	}{
		{1, "Unsatisfactory"},
		{2, "Needs Improvement"},
		{3, "Satisfactory"},
		{4, "Good"},
		{5, "Excellent"},
		{0, "Not rated"},
	}
	for _, tt := range tests {
		if got := tt.r.Description(); got != tt.want {
			t.Errorf("Rating(%d).Description() = %q, want %q", tt.r, got, tt.want)
		}
	}
	if got := Rating(4).String(); got != "4 - Good" {
		t.Errorf("String() = %q", got)
	}
}

func mustSelect(t *testing.T, s *Session, c catalog.Category) {
	t.Helper()
	if err := s.SelectCategory(c); err != nil {
		t.Fatalf("select %q: %v", c, err)
	}
}

func mustAdvance(t *testing.T, s *Session) {
	t.Helper()
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
}
