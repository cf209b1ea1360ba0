package categories

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
)

func newTestScreen() *CategoriesScreen {
	return New(&screen.Env{Session: assessment.New(catalog.Default())})
}

func TestCategoriesScreen_ListsPopulatedCategories(t *testing.T) {
	s := newTestScreen()
	if len(s.cats) != 7 {
		t.Fatalf("categories = %d, want 7", len(s.cats))
	}

	view := s.View(100, 30)
	for _, c := range catalog.AllCategories() {
		if !strings.Contains(view, string(c)) {
			t.Errorf("view missing %q", c)
		}
	}
	if !strings.Contains(view, "1 question") {
		t.Error("expected singular count for the testing category")
	}
}

func TestCategoriesScreen_Navigation(t *testing.T) {
	s := newTestScreen()

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}
	for range 10 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != len(s.cats)-1 {
		t.Errorf("selected = %d, want last", s.selected)
	}
}

func TestCategoriesScreen_EnterStartsCategory(t *testing.T) {
	s := newTestScreen()
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}

	// Without a journal the batch collapses to the push command.
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != string(catalog.CategoryArchitecture) {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
	if s.env.Session.Category() != catalog.CategoryArchitecture {
		t.Errorf("session category = %q", s.env.Session.Category())
	}
	if s.env.Session.Phase() != assessment.PhaseActive {
		t.Errorf("phase = %v, want active", s.env.Session.Phase())
	}
}

func TestCategoriesScreen_RefreshCountsRatings(t *testing.T) {
	s := newTestScreen()
	if err := s.env.Session.SelectCategory(catalog.CategoryTesting); err != nil {
		t.Fatal(err)
	}
	if err := s.env.Session.SetRating(8, 4); err != nil {
		t.Fatal(err)
	}

	s.Refresh()
	if s.rated[catalog.CategoryTesting] != 1 {
		t.Errorf("rated = %v", s.rated)
	}
	if view := s.View(100, 30); !strings.Contains(view, "1 rated") || !strings.Contains(view, "(current)") {
		t.Error("view should show rated count and the current category")
	}
}

func TestCategoriesScreen_StartsOnActiveCategory(t *testing.T) {
	env := &screen.Env{Session: assessment.New(catalog.Default())}
	if err := env.Session.SelectCategory(catalog.CategoryLeadership); err != nil {
		t.Fatal(err)
	}
	s := New(env)
	if s.cats[s.selected] != catalog.CategoryLeadership {
		t.Errorf("selected %q, want leadership", s.cats[s.selected])
	}
}
