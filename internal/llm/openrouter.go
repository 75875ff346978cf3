package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider targets the OpenRouter gateway, which speaks the
// OpenAI chat API and takes vendor-qualified model IDs ("openai/gpt-4o-mini").
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates an OpenRouter provider. Model IDs are
// passed through without alias mapping.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	inner := newChatCompletionsProvider(ProviderOpenRouter, OpenAIConfig{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Timeout: cfg.Timeout,
	}, cfg.Model)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
