package debrief

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/llm"
	"github.com/abhisek/assessor/internal/scoring"
)

var (
	// ErrNothingRated is returned when the report has no ratings to discuss.
	ErrNothingRated = errors.New("no rated questions to debrief")

	// ErrSuperseded is returned by Consume for a ticket replaced by a newer Request.
	ErrSuperseded = errors.New("debrief request superseded by a newer one")
)

// Ticket identifies one background request.
type Ticket uint64

// Service generates debriefs, synchronously or in the background.
type Service struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	cfg      Config

	mu      sync.Mutex
	latest  Ticket
	pending Result
	ready   bool
}

// Result is the outcome of a background request.
type Result struct {
	Debrief *Debrief
	Err     error
}

// NewService creates a debrief service. c supplies interviewer guidance and may be nil.
func NewService(provider llm.Provider, c *catalog.Catalog, cfg Config) *Service {
	return &Service{provider: provider, catalog: c, cfg: cfg}
}

// Generate produces a debrief for r and blocks until the provider answers.
func (s *Service) Generate(ctx context.Context, r scoring.Report) (*Debrief, error) {
	if r.RatedCount == 0 {
		return nil, ErrNothingRated
	}
	ctx = llm.WithPurpose(ctx, "debrief")

	req := llm.UserPrompt(systemPrompt, buildPrompt(r, s.catalog))
	req.Schema = Schema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("debrief generation: %w", err)
	}
	var d Debrief
	if err := resp.Decode(&d); err != nil {
		return nil, fmt.Errorf("parse debrief response: %w", err)
	}
	return &d, nil
}

// Request starts generation in the background and returns the ticket to
// consume its result with. Only the latest ticket is live; the result of an
// earlier request is dropped.
func (s *Service) Request(ctx context.Context, r scoring.Report) Ticket {
	s.mu.Lock()
	s.latest++
	t := s.latest
	s.pending, s.ready = Result{}, false
	s.mu.Unlock()

	go func() {
		d, err := s.Generate(ctx, r)
		s.mu.Lock()
		defer s.mu.Unlock()
		if t != s.latest {
			return
		}
		s.pending = Result{Debrief: d, Err: err}
		s.ready = true
	}()
	return t
}

// Consume returns the result for t once it is ready and clears it. The bool
// is false while generation is still running. A ticket that is no longer the
// latest gets ErrSuperseded.
func (s *Service) Consume(t Ticket) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return Result{Err: ErrSuperseded}, true
	}
	if !s.ready {
		return Result{}, false
	}
	res := s.pending
	s.pending, s.ready = Result{}, false
	return res, true
}
