package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required: %w", ErrInvalidCredential)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newProxyHTTPClient(config, config.timeout(90*time.Second)),
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the configured model can be resolved
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Models.Get(ctx, p.config.model(CompletionRequest{}, "gemini-2.0-flash"), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gemini API check failed: %v\n", err)
		return false
	}
	return true
}

// Complete runs one GenerateContent call
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.model(req, "gemini-2.0-flash")

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(p.config.maxTokens(req)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.User), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &CompletionResponse{
		Text:       text,
		Model:      model,
		TokensUsed: tokens,
	}, nil
}
