// Package config resolves runtime settings from .env files and ASSESSOR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/assessor/internal/llm"
)

// Config holds all configuration for assessor.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	DBPath  string
	Catalog string // YAML override; empty means the embedded catalog

	// LLM is the debrief provider. LLMEnabled is false when no provider
	// could be discovered, in which case debriefs are unavailable.
	LLM        llm.Config
	LLMEnabled bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `validate:"required"`
	Port           int           `validate:"min=1,max=65535"`
	RequestTimeout time.Duration `validate:"gt=0"`
	CORSOrigins    []string      `validate:"dive,required"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logrus settings.
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=text json"`
}

// Load reads .env (if present) and the environment. It does not validate;
// callers apply flag overrides first and then call Validate.
func Load() *Config {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("ASSESSOR_HOST", "127.0.0.1"),
			Port:           getEnvAsInt("ASSESSOR_PORT", 8080),
			RequestTimeout: getEnvAsDuration("ASSESSOR_REQUEST_TIMEOUT", 60*time.Second),
			CORSOrigins:    getEnvAsList("ASSESSOR_CORS_ORIGINS", []string{"http://localhost:*", "http://127.0.0.1:*"}),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("ASSESSOR_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("ASSESSOR_LOG_FORMAT", "text")),
		},
		DBPath:  getEnv("ASSESSOR_DB", ""),
		Catalog: getEnv("ASSESSOR_CATALOG", ""),
	}
	cfg.LLM, cfg.LLMEnabled = llm.DiscoverConfig()
	return cfg
}

var validate = validator.New()

// Validate checks ranges and enumerations. LLM settings are only checked
// when a provider was configured.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c.Server); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := validate.Struct(c.Log); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if c.Catalog != "" {
		if _, err := os.Stat(c.Catalog); err != nil {
			errs = append(errs, fmt.Errorf("catalog: %w", err))
		}
	}
	if c.LLMEnabled {
		if err := c.LLM.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("llm: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
