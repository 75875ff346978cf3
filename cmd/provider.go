package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/labgen/internal/labtask"
	"github.com/abhisek/labgen/internal/llm"
)

// addLLMFlags registers the generation backend flags. API keys are read
// from LABGEN_<PROVIDER>_API_KEY or the config file, never from flags.
func addLLMFlags(f *pflag.FlagSet) {
	f.String("llm-provider", "", "LLM provider (openai, anthropic, gemini, openrouter, mock); empty discovers from *_API_KEY")
	f.String("llm-model", "", "Model override for the selected provider")
	f.String("llm-base-url", "", "Base URL override for OpenAI-compatible providers")
	f.Duration("llm-timeout", llm.DefaultConfig().Timeout, "Timeout for a single generation request")
	f.Int("llm-max-attempts", 1, "Attempts per generation request (1 disables retry)")
	f.Bool("no-llm", false, "Skip the LLM and use template tasks only")
}

// llmConfig assembles an llm.Config from v. The second result is false when
// no provider is configured or discoverable.
func llmConfig(v *viper.Viper) (llm.Config, bool) {
	cfg := llm.DefaultConfig()
	cfg.Provider = v.GetString("llm-provider")
	cfg.Timeout = v.GetDuration("llm-timeout")
	cfg.Retry.MaxAttempts = v.GetInt("llm-max-attempts")

	cfg.OpenAI.APIKey = v.GetString("openai-api-key")
	cfg.Anthropic.APIKey = v.GetString("anthropic-api-key")
	cfg.Gemini.APIKey = v.GetString("gemini-api-key")
	cfg.OpenRouter.APIKey = v.GetString("openrouter-api-key")

	if cfg.Provider == "" {
		var ok bool
		if cfg, ok = llm.DiscoverConfig(cfg); !ok {
			return cfg, false
		}
	}

	if model := v.GetString("llm-model"); model != "" {
		switch cfg.Provider {
		case llm.ProviderOpenAI:
			cfg.OpenAI.Model = model
		case llm.ProviderAnthropic:
			cfg.Anthropic.Model = model
		case llm.ProviderGemini:
			cfg.Gemini.Model = model
		case llm.ProviderOpenRouter:
			cfg.OpenRouter.Model = model
		}
	}
	if base := v.GetString("llm-base-url"); base != "" {
		switch cfg.Provider {
		case llm.ProviderOpenAI:
			cfg.OpenAI.BaseURL = base
		case llm.ProviderOpenRouter:
			cfg.OpenRouter.BaseURL = base
		}
	}
	return cfg, true
}

// newClient builds the generation client. A missing provider yields a
// fallback-only client; a misconfigured one is an error.
func newClient(ctx context.Context, v *viper.Viper, recorder llm.EventRecorder) (*labtask.Client, error) {
	if v.GetBool("no-llm") {
		slog.Info("LLM disabled, using template tasks only")
		return labtask.NewClient(nil, labtask.DefaultConfig()), nil
	}

	cfg, ok := llmConfig(v)
	if !ok {
		slog.Warn("no LLM provider configured, using template tasks only")
		return labtask.NewClient(nil, labtask.DefaultConfig()), nil
	}

	provider, err := llm.NewProvider(ctx, cfg, recorder)
	if err != nil {
		return nil, err
	}
	slog.Info("LLM provider ready", "provider", cfg.Provider, "model", provider.ModelID(),
		"max_attempts", cfg.Retry.MaxAttempts)
	return labtask.NewClient(provider, labtask.DefaultConfig()), nil
}
