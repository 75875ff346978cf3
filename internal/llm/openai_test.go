package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newChatCompletionsProvider(ProviderOpenAI, OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	}, "gpt-4o-mini")
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":[{"question":"Build a REST endpoint","points":25}]}`, "stop"))
	})

	c, err := p.Complete(context.Background(), Request{
		System:      "You are an expert lab instructor.",
		Messages:    []Message{{Role: RoleUser, Content: "Generate 1 practical lab task."}},
		MaxTokens:   2000,
		Temperature: 0.8,
		Format:      FormatJSON,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Usage.InputTokens != 40 || c.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage %+v", c.Usage)
	}
	if c.StopReason != StopEnd {
		t.Fatalf("expected StopEnd, got %q", c.StopReason)
	}
	if c.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("expected served model, got %q", c.Model)
	}

	msgs := got["messages"].([]any)
	if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
		t.Fatalf("expected system + user messages, got %v", msgs)
	}
	if rf, _ := got["response_format"].(map[string]any); rf["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", got["response_format"])
	}
}

func TestOpenAIProvider_TextFormatOmitsResponseFormat(t *testing.T) {
	var got map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("plain", "length"))
	})

	c, err := p.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}, MaxTokens: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["response_format"]; ok {
		t.Fatalf("response_format should be omitted, got %v", got["response_format"])
	}
	if c.StopReason != StopMaxTokens {
		t.Fatalf("expected StopMaxTokens, got %q", c.StopReason)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindRejected},
		{http.StatusInternalServerError, KindUnavailable},
	}
	for _, tt := range tests {
		p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "error", "message": "nope"},
			})
		})

		_, err := p.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected *APIError, got %T (%v)", tt.status, err, err)
		}
		if apiErr.Kind != tt.kind || apiErr.Status != tt.status || apiErr.Provider != ProviderOpenAI {
			t.Fatalf("status %d: got %+v", tt.status, apiErr)
		}
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}})
	})

	_, err := p.Complete(context.Background(), Request{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindBadResponse {
		t.Fatalf("expected KindBadResponse, got %v", err)
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error for missing key")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected gpt-4o, got %q", p.ModelID())
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"}); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or"}); err == nil {
		t.Fatal("expected error for missing model")
	}

	// Vendor-qualified IDs are not alias-mapped, even when the bare part
	// matches an OpenAI alias.
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-haiku" {
		t.Fatalf("expected pass-through ID, got %q", p.ModelID())
	}
}

func TestOpenRouterProvider_ErrorsNameGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "upstream"}})
	}))
	defer server.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "meta-llama/llama-3.3-70b-instruct", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = p.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Provider != ProviderOpenRouter || apiErr.Kind != KindUnavailable {
		t.Fatalf("unexpected error %v", err)
	}
}
