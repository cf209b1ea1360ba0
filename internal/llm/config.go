package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig is the credential and model for one provider.
// BaseURL is only honoured by the OpenAI-compatible providers.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// section returns the per-provider block for name, or nil.
func (c *Config) section(name string) *ProviderConfig {
	switch name {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

var envProviders = []struct {
	name   string
	prefix string
}{
	{ProviderAnthropic, "ASSESSOR_ANTHROPIC"},
	{ProviderOpenAI, "ASSESSOR_OPENAI"},
	{ProviderGemini, "ASSESSOR_GEMINI"},
	{ProviderOpenRouter, "ASSESSOR_OPENROUTER"},
}

// ConfigFromEnv overlays ASSESSOR_* variables on DefaultConfig.
// The boolean is false when ASSESSOR_LLM_PROVIDER is unset.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	for _, p := range envProviders {
		sec := cfg.section(p.name)
		setFromEnv(&sec.APIKey, p.prefix+"_API_KEY")
		setFromEnv(&sec.Model, p.prefix+"_MODEL")
		setFromEnv(&sec.BaseURL, p.prefix+"_BASE_URL")
	}
	provider := os.Getenv("ASSESSOR_LLM_PROVIDER")
	if provider == "" {
		return cfg, false
	}
	cfg.Provider = provider
	return cfg, true
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// discoveryOrder lists the vendor key variables probed by DiscoverConfig.
var discoveryOrder = []struct {
	name string
	env  string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DiscoverConfig resolves a provider from the environment: an explicit
// ASSESSOR_LLM_PROVIDER wins, otherwise the first vendor API key found.
// It returns false when no provider can be configured.
func DiscoverConfig() (Config, bool) {
	if cfg, ok := ConfigFromEnv(); ok {
		return cfg, true
	}
	cfg := DefaultConfig()
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.name
			cfg.section(d.name).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	sec := c.section(c.Provider)
	if sec == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if sec.APIKey == "" {
		for _, p := range envProviders {
			if p.name == c.Provider {
				return fmt.Errorf("%s_API_KEY is required for the %s provider", p.prefix, c.Provider)
			}
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
