package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration. The backend is wrapped
// with event logging when recorder is non-nil, and with retry when
// cfg.Retry.MaxAttempts > 1.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		ac := cfg.Anthropic
		ac.Timeout = firstNonZero(ac.Timeout, cfg.Timeout)
		base, err = NewAnthropicProvider(ac)
	case ProviderOpenAI:
		oc := cfg.OpenAI
		oc.Timeout = firstNonZero(oc.Timeout, cfg.Timeout)
		base, err = NewOpenAIProvider(oc)
	case ProviderGemini:
		gc := cfg.Gemini
		gc.Timeout = firstNonZero(gc.Timeout, cfg.Timeout)
		base, err = NewGeminiProvider(ctx, gc)
	case ProviderOpenRouter:
		rc := cfg.OpenRouter
		rc.Timeout = firstNonZero(rc.Timeout, cfg.Timeout)
		base, err = NewOpenRouterProvider(rc)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	p := base
	if recorder != nil {
		p = WithLogging(p, cfg.Provider, recorder)
	}
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	return p, nil
}

func firstNonZero[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
