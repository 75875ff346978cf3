package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/labgen/internal/store"
)

type purposeKey struct{}

// WithPurpose labels the requests made with ctx, e.g. "lab-task-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// EventRecorder persists LLM request events. store.EventRepo satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every request, successful or not, as an event.
type LoggingProvider struct {
	inner    Provider
	name     string
	recorder EventRecorder
}

// WithLogging wraps p so each call is recorded under the backend name.
func WithLogging(p Provider, name string, recorder EventRecorder) Provider {
	return &LoggingProvider{inner: p, name: name, recorder: recorder}
}

func (l *LoggingProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	start := time.Now()
	c, err := l.inner.Complete(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if c != nil {
		data.InputTokens = c.Usage.InputTokens
		data.OutputTokens = c.Usage.OutputTokens
		data.ResponseBody = c.Text
		if c.Model != "" {
			data.Model = c.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if recErr := l.recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); recErr != nil {
		slog.Warn("failed to record LLM request event", "purpose", data.Purpose, "error", recErr)
	}
	return c, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders req the way `labgen llm view` prints it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	format := string(req.Format)
	if format == "" {
		format = "text"
	}
	fmt.Fprintf(&b, "[params] max_tokens=%d temperature=%.2f format=%s\n", req.MaxTokens, req.Temperature, format)
	return b.String()
}
