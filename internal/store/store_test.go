package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "m", Action: ActionCreate}); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= prev {
			t.Errorf("sequence went from %d to %d", prev, n)
		}
		prev = n
	}
}

func TestSessionEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "a", Action: ActionCreate},
		{SessionID: "a", Action: ActionSelectCategory, Category: "Testing & Quality Assurance"},
		{SessionID: "b", Action: ActionCreate},
		{SessionID: "a", Action: ActionRate, QuestionID: 8, Rating: 4},
		{SessionID: "a", Action: ActionNotes, QuestionID: 8, Notes: "clear answer"},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.Action, err)
		}
	}

	got, err := repo.QuerySessionEvents(ctx, QueryOpts{SessionID: "a"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d events for session a, want 4", len(got))
	}
	// newest first
	if got[0].Action != ActionNotes || got[0].Notes != "clear answer" {
		t.Errorf("newest event = %+v", got[0])
	}
	if got[1].Action != ActionRate || got[1].QuestionID != 8 || got[1].Rating != 4 {
		t.Errorf("rate event = %+v", got[1])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Sequence >= got[i-1].Sequence {
			t.Errorf("events not in descending sequence order: %d then %d", got[i-1].Sequence, got[i].Sequence)
		}
	}
	if got[0].Timestamp.IsZero() || time.Since(got[0].Timestamp) > time.Minute {
		t.Errorf("unexpected timestamp %v", got[0].Timestamp)
	}

	all, err := repo.QuerySessionEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d events with limit 2", len(all))
	}

	after, err := repo.QuerySessionEvents(ctx, QueryOpts{After: got[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Action != ActionNotes {
		t.Errorf("after filter returned %+v", after)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude", Purpose: "debrief",
		InputTokens: 100, OutputTokens: 40, LatencyMs: 900, Success: true,
		RequestBody: `{"system":"x"}`, ResponseBody: `{"summary":"y"}`,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt", Purpose: "other",
		Success: false, ErrorMessage: "rate limited",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d events, want 2", len(all))
	}
	if all[0].Provider != "openai" || all[0].Success || all[0].ErrorMessage != "rate limited" {
		t.Errorf("newest event = %+v", all[0])
	}

	debriefs, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "debrief"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(debriefs) != 1 {
		t.Fatalf("got %d debrief events, want 1", len(debriefs))
	}

	e, err := repo.GetLLMEvent(ctx, debriefs[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || !e.Success || e.InputTokens != 100 || e.ResponseBody != `{"summary":"y"}` {
		t.Errorf("got %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}

	usage := SummarizeLLMUsage(all)
	if len(usage) != 2 || usage[0].Provider != "openai" || usage[0].Failures != 1 || usage[1].InputTokens != 100 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("ASSESSOR_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if _, err := os.Stat(filepath.Dir(want)); err != nil {
			t.Errorf("parent dir not created: %v", err)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("ASSESSOR_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, "assessor", "assessor.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
