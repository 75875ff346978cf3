package llm

import "testing"

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{
		System:      "be practical",
		MaxTokens:   2000,
		Temperature: 0.8,
		Format:      FormatJSON,
	})
	if cfg.MaxOutputTokens != 2000 {
		t.Fatalf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.8) {
		t.Fatalf("Temperature = %v", cfg.Temperature)
	}
	if cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be practical" {
		t.Fatalf("SystemInstruction = %+v", cfg.SystemInstruction)
	}

	plain := geminiConfig(Request{MaxTokens: 10})
	if plain.Temperature != nil || plain.ResponseMIMEType != "" || plain.SystemInstruction != nil {
		t.Fatalf("unexpected plain config %+v", plain)
	}
}

func TestGeminiContents(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "a" {
		t.Fatalf("unexpected text %q", contents[1].Parts[0].Text)
	}
}
