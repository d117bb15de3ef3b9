package llm

import (
	"context"
	"time"
)

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system/user prompt pair and returns the raw reply text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single generation call
type CompletionRequest struct {
	System string
	User   string

	// Temperature is passed through unchanged; zero means provider default
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int

	// Model overrides the configured model (provider-specific)
	Model string
}

// CompletionResponse contains the provider's reply
type CompletionResponse struct {
	// Text is the reply, trimmed of surrounding whitespace
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   90,
		MaxTokens: 4096,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 4096
}

func (c Config) model(req CompletionRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}
