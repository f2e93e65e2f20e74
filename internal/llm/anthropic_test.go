package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func anthropicServer(t *testing.T, status int, body string, check func(anthropicRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAnthropicProvider_Infer_PrefillsJSON(t *testing.T) {
	body := `{"model": "claude-3-5-haiku-20241022", "content": [{"type": "text", "text": "\"ok\": true}"}],
		"usage": {"input_tokens": 30, "output_tokens": 12}}`

	server := anthropicServer(t, http.StatusOK, body, func(req anthropicRequest) {
		if len(req.Messages) != 2 || req.Messages[1].Role != "assistant" || req.Messages[1].Content != "{" {
			t.Errorf("Expected assistant prefill, got %+v", req.Messages)
		}
		if req.System == "" {
			t.Error("Expected system prompt with schema")
		}
	})
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Infer(context.Background(), Request{Prompt: "go", Schema: `{"ok": bool}`})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if resp.Text != `{"ok": true}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_Infer_APIError(t *testing.T) {
	body := `{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`
	server := anthropicServer(t, 529, body, nil)
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Infer(context.Background(), Request{Prompt: "go"})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("Expected ErrProviderUnavailable, got %v", err)
	}
	if want := "overloaded_error - Overloaded"; !strings.Contains(err.Error(), want) {
		t.Errorf("Expected %q in error, got %v", want, err)
	}
}
