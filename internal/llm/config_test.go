package llm

import (
	"context"
	"strings"
	"testing"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ASSESSOR_LLM_PROVIDER",
		"ASSESSOR_ANTHROPIC_API_KEY", "ASSESSOR_OPENAI_API_KEY", "ASSESSOR_GEMINI_API_KEY", "ASSESSOR_OPENROUTER_API_KEY",
		"ASSESSOR_ANTHROPIC_MODEL", "ASSESSOR_OPENAI_MODEL", "ASSESSOR_OPENAI_BASE_URL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ConfigFromEnv(); ok {
		t.Error("expected no explicit provider")
	}

	t.Setenv("ASSESSOR_LLM_PROVIDER", "openai")
	t.Setenv("ASSESSOR_OPENAI_API_KEY", "sk-1")
	t.Setenv("ASSESSOR_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("ASSESSOR_OPENAI_BASE_URL", "http://localhost:1234/v1")
	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("expected explicit provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-1" || cfg.OpenAI.Model != "gpt-4.1-mini" || cfg.OpenAI.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("cfg = %+v", cfg.OpenAI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected nothing discovered")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o-key" {
		t.Errorf("discovered %q ok=%v", cfg.Provider, ok)
	}

	t.Setenv("ASSESSOR_LLM_PROVIDER", "mock")
	cfg, ok = DiscoverConfig()
	if !ok || cfg.Provider != ProviderMock {
		t.Errorf("explicit provider should win, got %q", cfg.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ASSESSOR_ANTHROPIC_API_KEY") {
		t.Errorf("missing key error = %v", err)
	}

	cfg.Provider = "cohere"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown provider error")
	}

	cfg.Provider = ProviderMock
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock should validate: %v", err)
	}
}

func TestNew_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Errorf("expected retry wrapper, got %T", p)
	}
}
