package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/cache"
)

// CachingProvider replays earlier replies for identical requests. Failed
// calls are never cached.
type CachingProvider struct {
	Provider
	cache  cache.Cache
	ttl    time.Duration
	model  string
	logger *zap.Logger
}

// NewCachingProvider wraps p; model is folded into the key so switching
// models does not replay stale replies
func NewCachingProvider(p Provider, c cache.Cache, ttl time.Duration, model string, logger *zap.Logger) *CachingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingProvider{Provider: p, cache: c, ttl: ttl, model: model, logger: logger}
}

func (p *CachingProvider) key(req CompletionRequest) string {
	model := req.Model
	if model == "" {
		model = p.model
	}
	return cache.Key("completion",
		p.Provider.Name(),
		model,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.Itoa(req.MaxTokens),
		req.System,
		req.User,
	)
}

// Complete returns a cached reply or calls the wrapped provider
func (p *CachingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := p.key(req)
	if data, ok := p.cache.Get(key); ok {
		var resp CompletionResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			p.logger.Debug("completion cache hit", zap.String("provider", p.Provider.Name()))
			return &resp, nil
		}
	}

	resp, err := p.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := p.cache.Set(key, data, p.ttl); err != nil {
			p.logger.Warn("completion cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}
