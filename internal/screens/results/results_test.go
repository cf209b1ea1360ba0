package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/llm"
	"github.com/abhisek/assessor/internal/router"
	"github.com/abhisek/assessor/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "categories" }
func (s *stubScreen) Title() string                           { return "Choose a Category" }

func testEnv(t *testing.T) *screen.Env {
	t.Helper()
	sess := assessment.New(catalog.Default())
	if err := sess.SelectCategory(catalog.CategoryFundamentals); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetRating(1, 5); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetRating(2, 3); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetNotes(2, "vague on closures"); err != nil {
		t.Fatal(err)
	}
	return &screen.Env{
		Session:      sess,
		ReportDir:    t.TempDir(),
		PickCategory: func() screen.Screen { return &stubScreen{} },
	}
}

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestResultsScreen_View(t *testing.T) {
	s := New(testEnv(t))
	view := s.View(100, 40)

	for _, want := range []string{"4.0 / 5", "Good", "Recommended", "2 answered, 2 rated", string(catalog.CategoryFundamentals)} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_EmptyView(t *testing.T) {
	env := testEnv(t)
	env.Session = assessment.New(catalog.Default())
	s := New(env)

	if view := s.View(100, 40); !strings.Contains(view, "No answers recorded yet") {
		t.Errorf("empty view = %q", view)
	}
}

func TestResultsScreen_RefreshRescores(t *testing.T) {
	env := testEnv(t)
	s := New(env)

	if err := env.Session.SetRating(4, 1); err != nil {
		t.Fatal(err)
	}
	s.Refresh()

	if s.report.RatedCount != 3 {
		t.Errorf("RatedCount = %d, want 3", s.report.RatedCount)
	}
}

func TestResultsScreen_SaveReport(t *testing.T) {
	env := testEnv(t)
	s := New(env)

	_, cmd := s.Update(key("s"))
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg := cmd()
	saved, ok := msg.(reportSavedMsg)
	if !ok {
		t.Fatalf("expected reportSavedMsg, got %T", msg)
	}
	if saved.Err != nil {
		t.Fatalf("save failed: %v", saved.Err)
	}
	if filepath.Dir(saved.Path) != env.ReportDir {
		t.Errorf("saved to %q, want dir %q", saved.Path, env.ReportDir)
	}

	data, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# React Developer Assessment Report") {
		t.Errorf("report content = %q", data)
	}
	if !strings.Contains(string(data), "vague on closures") {
		t.Error("report should include notes")
	}

	s.Update(saved)
	if !strings.Contains(s.View(100, 60), "Saved to") {
		t.Error("view should confirm the saved path")
	}
}

func TestResultsScreen_SaveTwiceKeepsBothReports(t *testing.T) {
	dir := t.TempDir()
	first := testEnv(t)
	first.ReportDir = dir
	second := testEnv(t)
	second.ReportDir = dir

	var paths []string
	for _, env := range []*screen.Env{first, first, second} {
		_, cmd := New(env).Update(key("s"))
		saved, ok := cmd().(reportSavedMsg)
		if !ok || saved.Err != nil {
			t.Fatalf("save failed: %+v", saved)
		}
		paths = append(paths, saved.Path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("files = %d, want 3 (paths %v)", len(entries), paths)
	}
	if !strings.Contains(filepath.Base(paths[2]), second.Session.ID[:8]) {
		t.Errorf("%q should carry the session id prefix", paths[2])
	}
}

func TestResultsScreen_DebriefWithoutProvider(t *testing.T) {
	s := New(testEnv(t))

	_, cmd := s.Update(key("d"))
	if cmd != nil {
		t.Error("expected no command without a provider")
	}
	if !strings.Contains(s.errMsg, "No LLM provider") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if len(s.KeyHints()) != 4 {
		t.Errorf("KeyHints length = %d, want 4", len(s.KeyHints()))
	}
}

func TestResultsScreen_Debrief(t *testing.T) {
	env := testEnv(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{
		"summary": "Strong on fundamentals.",
		"strengths": ["Clear mental model of props"],
		"concerns": ["Closures"],
		"follow_ups": ["Ask for a stale closure example"]
	}`)})
	env.Debrief = debrief.NewService(mock, catalog.Default(), debrief.DefaultConfig())
	s := New(env)

	_, cmd := s.Update(key("d"))
	if cmd == nil {
		t.Fatal("expected a poll command")
	}
	if !s.debriefing {
		t.Fatal("expected debriefing to start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.debriefing && time.Now().Before(deadline) {
		s.Update(debriefPollMsg{})
		time.Sleep(10 * time.Millisecond)
	}

	if s.debrief == nil {
		t.Fatalf("debrief not received, errMsg = %q", s.errMsg)
	}
	view := s.View(100, 80)
	for _, want := range []string{"Interviewer Debrief", "Strong on fundamentals.", "Closures"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if len(s.KeyHints()) != 5 {
		t.Errorf("KeyHints length = %d, want 5", len(s.KeyHints()))
	}
}

func TestResultsScreen_RefreshDropsDebrief(t *testing.T) {
	s := New(testEnv(t))
	s.debrief = &debrief.Debrief{Summary: "Written for the old numbers."}
	s.debriefing = true

	s.Refresh()

	if s.debrief != nil || s.debriefing {
		t.Errorf("debrief = %+v, debriefing = %v; want both cleared", s.debrief, s.debriefing)
	}
	if strings.Contains(s.View(100, 80), "Written for the old numbers.") {
		t.Error("stale debrief still rendered")
	}
}

func TestResultsScreen_DebriefOfEarlierScreenIsNotAdopted(t *testing.T) {
	const content = `{"summary": "Fresh.", "strengths": [], "concerns": [], "follow_ups": []}`
	env := testEnv(t)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte(content)},
		llm.MockResponse{Content: []byte(content)},
	)
	env.Debrief = debrief.NewService(mock, catalog.Default(), debrief.DefaultConfig())

	earlier := New(env)
	earlier.Update(key("d"))
	later := New(env)
	later.Update(key("d"))

	earlier.Update(debriefPollMsg{})
	if earlier.debrief != nil || earlier.debriefing {
		t.Error("earlier screen should give up its replaced request")
	}
	if !strings.Contains(earlier.errMsg, "replaced") {
		t.Errorf("errMsg = %q", earlier.errMsg)
	}

	deadline := time.Now().Add(2 * time.Second)
	for later.debriefing && time.Now().Before(deadline) {
		later.Update(debriefPollMsg{})
		time.Sleep(10 * time.Millisecond)
	}
	if later.debrief == nil || later.debrief.Summary != "Fresh." {
		t.Fatalf("later screen debrief = %+v, errMsg = %q", later.debrief, later.errMsg)
	}
}

func TestResultsScreen_PickAnotherCategory(t *testing.T) {
	s := New(testEnv(t))

	_, cmd := s.Update(key("c"))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatalf("expected ResetScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Choose a Category" {
		t.Errorf("screen = %q", msg.Screen.Title())
	}
}

func TestResultsScreen_Scroll(t *testing.T) {
	s := New(testEnv(t))

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 0 {
		t.Errorf("offset = %d, want 0", s.offset)
	}
	for range 100 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.View(100, 10)
	lines := len(s.renderLines(72))
	if s.offset > lines {
		t.Errorf("offset %d should be clamped to content (%d lines)", s.offset, lines)
	}
}
