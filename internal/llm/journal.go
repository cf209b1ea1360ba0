package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/store"
)

// JournalProvider records every request it forwards in the event journal.
type JournalProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
}

// WithJournal wraps p so that each call is appended to repo under the
// given provider name. A nil repo disables journaling.
func WithJournal(p Provider, provider string, repo store.EventRepo) Provider {
	if repo == nil {
		return p
	}
	return &JournalProvider{inner: p, provider: provider, repo: repo}
}

func (j *JournalProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := j.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    j.provider,
		Model:       j.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// The caller's context may already be cancelled; the journal write must still land.
	if jerr := j.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); jerr != nil {
		log.WithError(jerr).Warn("failed to journal LLM request")
	}
	return resp, err
}

func (j *JournalProvider) ModelID() string {
	return j.inner.ModelID()
}

// transcript renders a request the way `assessor llm view` prints it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
