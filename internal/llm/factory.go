package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/cache"
	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/worker"
)

// NewProvider creates a new LLM provider based on configuration. An empty
// provider name disables generation and returns nil.
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	var (
		p   Provider
		err error
	)
	switch provider {
	case "openai":
		p, err = NewOpenAIProvider(config)

	case "anthropic", "claude":
		p, err = NewAnthropicProvider(config)

	case "ollama":
		p, err = NewOllamaProvider(config)

	case "gemini", "google":
		p, err = NewGeminiProvider(ctx, config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}

// NewFromConfig builds the configured provider, rate limited and cached.
// The cache sits outermost so replayed replies skip the limiter. A nil
// provider with a nil error means generation is disabled.
func NewFromConfig(ctx context.Context, cfg *model.Config, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := NewProvider(ctx, ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	if cfg.RateLimiting.RequestsPerSecond > 0 {
		p = NewRateLimitedProvider(p, worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(cache.Options{
			Backend:   cfg.Cache.Backend,
			Dir:       cfg.Cache.Dir,
			TTL:       cfg.Cache.TTL,
			RedisAddr: cfg.Cache.RedisAddr,
		})
		if err != nil {
			logger.Warn("completion cache disabled", zap.Error(err))
		} else {
			p = NewCachingProvider(p, c, cfg.Cache.TTL, cfg.LLM.Model, logger)
		}
	}

	return p, nil
}
