package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
			t.Errorf("Expected system then user message, got %+v", req.Messages)
		}
		if req.Messages[1].Content != "[1] Hello." {
			t.Errorf("Unexpected user content: %q", req.Messages[1].Content)
		}
		if req.Temperature != 0.5 {
			t.Errorf("Expected temperature 0.5, got %v", req.Temperature)
		}
		if req.MaxTokens != 4096 {
			t.Errorf("Expected max tokens 4096, got %d", req.MaxTokens)
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "  [{\"content\":\"x\"}]\n",
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 100},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Model:     "gpt-4o-mini",
		Timeout:   5,
		MaxTokens: 4096,
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

	if resp.Text != `[{"content":"x"}]` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if ClassifyError(err) != FailureInvalidCredential {
		t.Errorf("Expected invalid credential, got %v", err)
	}
}

func TestOpenAIProvider_Complete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   FailureKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`, FailureInvalidCredential},
		{"rate limit", http.StatusTooManyRequests, `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`, FailureRateLimit},
		{"server error", http.StatusInternalServerError, `{"error": {"message": "Internal error", "type": "server_error"}}`, FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			_, err = provider.Complete(context.Background(), CompletionRequest{User: "x"})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := ClassifyError(err); got != tt.want {
				t.Errorf("ClassifyError = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestOpenAIProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{User: "x"})
	if err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestOpenAIProvider_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	// the caller's deadline wins over the configured timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = provider.Complete(ctx, CompletionRequest{User: "x"})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if got := ClassifyError(err); got != FailureNetwork {
		t.Errorf("Expected network failure for deadline, got %q (err: %v)", got, err)
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
