package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "system prompt") || !strings.Contains(string(body), "[1] Hello.") {
			t.Errorf("Expected both prompts in request body, got %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": " [] "}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{"totalTokenCount": 42},
		})
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(context.Background(), Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:      "system prompt",
		User:        "[1] Hello.",
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "[]" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestGeminiProvider_Complete_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{User: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if got := ClassifyError(err); got != FailureRateLimit {
		t.Errorf("Expected rate limit, got %q (err: %v)", got, err)
	}
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), Config{}); err == nil {
		t.Fatal("Expected error without API key")
	}
}
