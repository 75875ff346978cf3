// Package llm talks to hosted chat-completion backends. Each backend is a
// Provider; decorators add retry and request recording.
package llm

import "context"

// Provider sends a single completion request to a chat backend.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Completion, error)

	// ModelID returns the model identifier this provider sends requests to.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	System   string
	Messages []Message

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the backend default.
	Temperature float64

	// Format asks the backend to constrain its output. Backends without a
	// native JSON mode ignore it and rely on the prompt.
	Format Format
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Format selects the output constraint.
type Format string

const (
	FormatText Format = ""
	FormatJSON Format = "json"
)

// Completion is the backend's reply.
type Completion struct {
	// Text is the raw model output. Even with FormatJSON it may carry
	// markdown fences or stray prose.
	Text string

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	StopReason StopReason
}

// StopReason is the normalized reason generation ended.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// resolveModel maps a short alias to a vendor model ID. Unknown names are
// passed through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
