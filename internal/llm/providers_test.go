package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

var testSchema = &Schema{
	Name:        "test-verdict",
	Description: "a verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string", "enum": []any{"hire", "no-hire"}},
		},
		"required":             []any{"verdict"},
		"additionalProperties": false,
	},
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"verdict":"hire"}`, "end_turn")))
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("alias not resolved: %q", p.ModelID())
	}

	req := UserPrompt("You are an interviewer.", "Decide.")
	req.Schema = testSchema
	req.MaxTokens = 256
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
	var out struct{ Verdict string }
	if err := resp.Decode(&out); err != nil || out.Verdict != "hire" {
		t.Errorf("decode = %+v, %v", out, err)
	}
}

func TestAnthropicProvider_SchemaViolation(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"verdict":"maybe"}`, "end_turn")))
	req := UserPrompt("", "Decide.")
	req.Schema = testSchema
	_, err := p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"verd`, "max_tokens")))
	req := UserPrompt("", "Decide.")
	req.Schema = testSchema
	_, err := p.Generate(context.Background(), req)
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		body := map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "nope"}}
		p := newTestAnthropic(t, jsonHandler(tt.status, body))
		_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: unexpected error type %T: %v", tt.status, err, err)
		}
	}
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got map[string]any
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		jsonHandler(http.StatusOK, map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"verdict":"no-hire"}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})(w, r)
	})

	req := UserPrompt("system prompt", "Decide.")
	req.Schema = testSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"verdict":"no-hire"}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("sent %d messages, want system + user", len(msgs))
	}
	if _, ok := got["response_format"]; !ok {
		t.Error("expected response_format in request")
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAI(t, jsonHandler(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "rate_limit_exceeded"},
	}))
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAI(t, jsonHandler(http.StatusOK, map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}}))
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "sk-or", Model: "meta-llama/llama-3-8b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "meta-llama/llama-3-8b" {
		t.Errorf("model = %q", p.ModelID())
	}
	if _, err := NewOpenRouterProvider(ProviderConfig{Model: "x"}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":   map[string]any{"type": "string", "description": "short"},
			"strengths": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"verdict":   map[string]any{"type": "string", "enum": []any{"a", "b"}},
		},
		"required": []string{"summary"},
	}
	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Errorf("type = %v", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("got %d properties", len(s.Properties))
	}
	if s.Properties["summary"].Description != "short" {
		t.Error("description lost")
	}
	if st := s.Properties["strengths"]; st.Type != genai.TypeArray || st.Items == nil || st.Items.Type != genai.TypeString {
		t.Errorf("array schema = %+v", st)
	}
	if len(s.Properties["verdict"].Enum) != 2 {
		t.Error("enum lost")
	}
	if len(s.Required) != 1 || s.Required[0] != "summary" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("gemini-flash", geminiAliases); got != "gemini-2.5-flash" {
		t.Errorf("alias = %q", got)
	}
	if got := resolveModel("gemini-2.0-flash", geminiAliases); got != "gemini-2.0-flash" {
		t.Errorf("pass-through = %q", got)
	}
}
