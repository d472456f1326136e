package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "mock".
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds one generation call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic settings.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI settings. BaseURL overrides the endpoint for
// compatible gateways.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the standard provider defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "mock",
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from ACADEMY_* variables, falling back to
// the bare provider key vars (ANTHROPIC_API_KEY and friends) and then to
// defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("ACADEMY_SCAFFOLD_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if m := os.Getenv("ACADEMY_SCAFFOLD_MODEL"); m != "" {
		cfg.Anthropic.Model = m
		cfg.OpenAI.Model = m
		cfg.Gemini.Model = m
	}

	cfg.Anthropic.APIKey = firstEnv("ACADEMY_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	cfg.OpenAI.APIKey = firstEnv("ACADEMY_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("ACADEMY_OPENAI_BASE_URL")
	cfg.Gemini.APIKey = firstEnv("ACADEMY_GEMINI_API_KEY", "GEMINI_API_KEY")

	return cfg
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the selected provider has the credentials it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ACADEMY_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ACADEMY_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ACADEMY_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
		// No credentials needed.
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}
