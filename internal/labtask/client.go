package labtask

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/abhisek/labgen/internal/llm"
)

// Client makes the single backend call for a pool. It never retries;
// callers that want retry wrap the provider with llm.WithRetry.
type Client struct {
	provider llm.Provider
	config   Config
}

// NewClient returns a Client. A nil provider yields a client that always
// reports KindGenerationUnavailable, which runs the service fallback-only.
func NewClient(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, config: cfg}
}

// ModelID returns the backend model, or "" when running fallback-only.
func (c *Client) ModelID() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.ModelID()
}

// Generate sends prompt and returns the raw model text. Any backend error
// or an empty reply is a *GenerationError of KindGenerationUnavailable.
func (c *Client) Generate(ctx context.Context, prompt Prompt, count int) (string, error) {
	if c.provider == nil {
		return "", &GenerationError{Kind: KindGenerationUnavailable, Err: errors.New("no generation backend configured")}
	}

	ctx = llm.WithPurpose(ctx, c.config.Purpose)

	resp, err := c.provider.Complete(ctx, llm.Request{
		System: prompt.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.User},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		Format:      c.config.Format,
	})
	if err != nil {
		return "", &GenerationError{Kind: KindGenerationUnavailable, Err: err}
	}

	raw := resp.Text
	if strings.TrimSpace(raw) == "" {
		return "", newError(KindGenerationUnavailable, "empty response from %s", c.provider.ModelID())
	}

	slog.Debug("lab tasks generated",
		"model", resp.Model,
		"requested", count,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	return raw, nil
}
