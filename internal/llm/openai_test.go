package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}

		var chatReq map[string]any
		if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if rf, ok := chatReq["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
			t.Errorf("Expected json_object response_format, got %v", chatReq["response_format"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-123",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": `{"arguments": []}`,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     40,
				"completion_tokens": 10,
				"total_tokens":      50,
			},
		})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:   "You analyze legal motions.",
		Prompt:   "Extract every argument from this motion.",
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != `{"arguments": []}` {
		t.Errorf("Unexpected completion text: %s", resp.Text)
	}
	if resp.TokensUsed != 50 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if err == nil {
		t.Error("Expected error when API key is missing")
	}
}
