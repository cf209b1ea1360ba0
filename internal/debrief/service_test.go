package debrief

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/llm"
	"github.com/abhisek/assessor/internal/scoring"
)

const validDebrief = `{
	"summary": "Strong fundamentals, weaker on architecture.",
	"strengths": ["Explains state ownership clearly"],
	"concerns": ["Limited experience structuring large apps"],
	"follow_ups": ["Ask about a feature-folder migration"]
}`

func sampleReport() scoring.Report {
	return scoring.Aggregate(catalog.Default(), map[int]assessment.Answer{
		1: {Rating: 5, Notes: "lifting state up"},
		3: {Rating: 2},
	})
}

func TestService_Generate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(validDebrief)})
	svc := NewService(mock, catalog.Default(), DefaultConfig())

	d, err := svc.Generate(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(d.Summary, "Strong fundamentals") || len(d.Strengths) != 1 || len(d.FollowUps) != 1 {
		t.Errorf("debrief = %+v", d)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	prompt := calls[0].Messages[0].Content
	for _, want := range []string{
		"Overall rating: 3.5/5",
		"Rating: 5 (Excellent)",
		"Notes: lifting state up",
		"Expected: Props flow down",
		"Category: Architecture & Component Design (average 2.0)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if calls[0].Schema != Schema {
		t.Error("request should carry the debrief schema")
	}
}

func TestService_NothingRated(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, nil, DefaultConfig())
	_, err := svc.Generate(context.Background(), scoring.Aggregate(catalog.Default(), nil))
	if !errors.Is(err, ErrNothingRated) {
		t.Fatalf("got %v, want ErrNothingRated", err)
	}
	if len(mock.Calls()) != 0 {
		t.Error("provider should not be called")
	}
}

func TestService_InvalidResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{"summary":"x"}`)})
	svc := NewService(mock, nil, DefaultConfig())
	_, err := svc.Generate(context.Background(), sampleReport())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want ErrInvalidResponse", err)
	}
}

func consumeWithin(t *testing.T, svc *Service, ticket Ticket) Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := svc.Consume(ticket); ok {
			return res
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("debrief not ready before deadline")
	return Result{}
}

func TestService_RequestConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(validDebrief)})
	svc := NewService(mock, nil, DefaultConfig())

	ticket := svc.Request(t.Context(), sampleReport())
	res := consumeWithin(t, svc, ticket)
	if res.Err != nil || res.Debrief == nil {
		t.Fatalf("got %+v", res)
	}
	if _, ok := svc.Consume(ticket); ok {
		t.Error("result should be cleared after consumption")
	}
}

func TestService_NewerRequestSupersedes(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte(validDebrief)},
		llm.MockResponse{Content: []byte(validDebrief)},
	)
	svc := NewService(mock, nil, DefaultConfig())

	first := svc.Request(t.Context(), sampleReport())
	second := svc.Request(t.Context(), sampleReport())
	if first == second {
		t.Fatal("each request should get its own ticket")
	}

	res, ok := svc.Consume(first)
	if !ok || !errors.Is(res.Err, ErrSuperseded) {
		t.Fatalf("old ticket: got %+v, %v; want ErrSuperseded", res, ok)
	}

	res = consumeWithin(t, svc, second)
	if res.Err != nil || res.Debrief == nil {
		t.Fatalf("latest ticket: got %+v", res)
	}
}

func TestDebrief_Markdown(t *testing.T) {
	d := &Debrief{Summary: "Solid.", Strengths: []string{"Testing"}, FollowUps: []string{"Ask about SSR"}}
	md := d.Markdown()
	if !strings.HasPrefix(md, "## Interviewer Debrief\n\nSolid.\n") {
		t.Errorf("unexpected header:\n%s", md)
	}
	if !strings.Contains(md, "### Strengths\n\n- Testing\n") || !strings.Contains(md, "- Ask about SSR") {
		t.Errorf("missing sections:\n%s", md)
	}
	if strings.Contains(md, "### Concerns") {
		t.Error("empty section should be omitted")
	}
}
