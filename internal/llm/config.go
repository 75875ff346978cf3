package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM backend configuration.
type Config struct {
	// Provider selects the backend. Empty means "discover from the
	// standard *_API_KEY variables".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single backend request. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig configures the Messages API backend. Model accepts an
// alias such as "claude-haiku" or a full model id.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-4o-mini"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 (or less) disables retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Lab-task generation
// is single-shot, so retry is off unless the operator raises MaxAttempts.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4o-mini",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envKeys lists the conventional API key variables in discovery order.
var envKeys = []struct {
	provider string
	env      string
	set      func(*Config, string)
}{
	{ProviderOpenAI, "OPENAI_API_KEY", func(c *Config, k string) { c.OpenAI.APIKey = k }},
	{ProviderGemini, "GEMINI_API_KEY", func(c *Config, k string) { c.Gemini.APIKey = k }},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", func(c *Config, k string) { c.Anthropic.APIKey = k }},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", func(c *Config, k string) { c.OpenRouter.APIKey = k }},
}

// DiscoverConfig selects the first provider in envKeys whose variable is
// set. It returns (base, false) when none is.
func DiscoverConfig(base Config) (Config, bool) {
	for _, ek := range envKeys {
		k := os.Getenv(ek.env)
		if k == "" {
			continue
		}
		cfg := base
		cfg.Provider = ek.provider
		ek.set(&cfg, k)
		return cfg, true
	}
	return base, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider (LABGEN_%s_API_KEY)",
			c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
