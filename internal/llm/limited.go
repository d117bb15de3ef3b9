package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/essayfb/internal/worker"
)

// RateLimitedProvider throttles calls through a limiter keyed by provider name
type RateLimitedProvider struct {
	Provider
	limiter *worker.Limiter
}

// NewRateLimitedProvider wraps p with limiter
func NewRateLimitedProvider(p Provider, limiter *worker.Limiter) *RateLimitedProvider {
	return &RateLimitedProvider{Provider: p, limiter: limiter}
}

// Complete waits for a token and then calls the wrapped provider
func (p *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx, p.Provider.Name()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return p.Provider.Complete(ctx, req)
}
