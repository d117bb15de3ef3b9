package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureNone},
		{"credential sentinel", fmt.Errorf("wrap: %w", ErrInvalidCredential), FailureInvalidCredential},
		{"rate sentinel", ErrRateLimit, FailureRateLimit},
		{"network sentinel", fmt.Errorf("dial: %w", ErrNetwork), FailureNetwork},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), FailureNetwork},
		{"status 401", &StatusError{Provider: "x", StatusCode: http.StatusUnauthorized}, FailureInvalidCredential},
		{"status 403", &StatusError{Provider: "x", StatusCode: http.StatusForbidden}, FailureInvalidCredential},
		{"status 429", &StatusError{Provider: "x", StatusCode: http.StatusTooManyRequests}, FailureRateLimit},
		{"status 400 api key", &StatusError{Provider: "x", StatusCode: http.StatusBadRequest, Message: "API key not valid"}, FailureInvalidCredential},
		{"status 500", &StatusError{Provider: "x", StatusCode: http.StatusInternalServerError, Message: "boom"}, FailureOther},
		{"message rate limit", errors.New("Rate limit reached for requests"), FailureRateLimit},
		{"message refused", errors.New("dial tcp: connection refused"), FailureNetwork},
		{"cancelled", context.Canceled, FailureOther},
		{"other", errors.New("something odd"), FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(FailureInvalidCredential, nil); got != "Invalid API key. Please check and try again." {
		t.Errorf("unexpected credential message: %q", got)
	}
	if got := UserMessage(FailureRateLimit, nil); got != "Rate limit exceeded. Please try again later." {
		t.Errorf("unexpected rate limit message: %q", got)
	}
	if got := UserMessage(FailureNetwork, nil); got != "Network error. Please check your connection and try again." {
		t.Errorf("unexpected network message: %q", got)
	}
	if got := UserMessage(FailureOther, errors.New("model overloaded")); got != "model overloaded" {
		t.Errorf("expected provider message, got %q", got)
	}
	if got := UserMessage(FailureOther, nil); got == "" {
		t.Error("expected generic fallback message")
	}
	if got := UserMessage(FailureNone, nil); got != "" {
		t.Errorf("expected no message, got %q", got)
	}
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Provider: "anthropic", StatusCode: 401, Type: "authentication_error", Message: "invalid x-api-key"}
	want := "anthropic API error (401): authentication_error - invalid x-api-key"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
