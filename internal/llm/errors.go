package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

var (
	// ErrInvalidCredential means the provider rejected the API key
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrRateLimit means the provider throttled the request
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNetwork means the provider could not be reached
	ErrNetwork = errors.New("network failure")

	// ErrNoProvider means no provider is configured
	ErrNoProvider = errors.New("no LLM provider configured")

	// ErrEmptyResponse means the provider replied without any text
	ErrEmptyResponse = errors.New("empty response")
)

// FailureKind classifies a failed generation call
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureInvalidCredential FailureKind = "invalid_credential"
	FailureRateLimit         FailureKind = "rate_limit"
	FailureNetwork           FailureKind = "network"
	FailureOther             FailureKind = "other"
)

// StatusError is a non-2xx reply from a provider's HTTP API
type StatusError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s API error (%d): %s - %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses onto the sentinel errors
func (e *StatusError) Unwrap() error {
	return statusSentinel(e.StatusCode, e.Type+" "+e.Message)
}

func statusSentinel(code int, detail string) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrInvalidCredential
	case code == http.StatusTooManyRequests:
		return ErrRateLimit
	case strings.Contains(strings.ToLower(detail), "api key"):
		return ErrInvalidCredential
	}
	return nil
}

// ClassifyError maps a provider error to a FailureKind
func ClassifyError(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	switch {
	case errors.Is(err, ErrInvalidCredential):
		return FailureInvalidCredential
	case errors.Is(err, ErrRateLimit):
		return FailureRateLimit
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return FailureNetwork
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		if s := statusSentinel(oaiErr.HTTPStatusCode, oaiErr.Message); s != nil {
			return ClassifyError(s)
		}
		return FailureOther
	}

	var oaiReqErr *openai.RequestError
	if errors.As(err, &oaiReqErr) {
		if s := statusSentinel(oaiReqErr.HTTPStatusCode, ""); s != nil {
			return ClassifyError(s)
		}
		return FailureOther
	}

	var genaiErr *genai.APIError
	if errors.As(err, &genaiErr) {
		if s := statusSentinel(genaiErr.Code, genaiErr.Message); s != nil {
			return ClassifyError(s)
		}
		return FailureOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "unauthorized"):
		return FailureInvalidCredential
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "resource_exhausted"):
		return FailureRateLimit
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return FailureNetwork
	}
	return FailureOther
}

// UserMessage returns the message shown to users for a failure
func UserMessage(kind FailureKind, err error) string {
	switch kind {
	case FailureNone:
		return ""
	case FailureInvalidCredential:
		return "Invalid API key. Please check and try again."
	case FailureRateLimit:
		return "Rate limit exceeded. Please try again later."
	case FailureNetwork:
		return "Network error. Please check your connection and try again."
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Failed to generate feedback. Please try again."
}
