package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key: a provider name for generation
// calls, a host for essay fetches
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter; requestsPerSecond <= 0 disables limiting
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.get(key).Wait(ctx)
}

// Allow reports whether key has a token without waiting
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// WaitURL rate-limits by the URL's host
func (l *Limiter) WaitURL(ctx context.Context, rawURL string) error {
	host, err := HostKey(rawURL)
	if err != nil {
		return err
	}
	return l.Wait(ctx, host)
}

// WaitWithDelay waits for a token and then an additional delay, as requested
// by a robots.txt Crawl-delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		timer := time.NewTimer(additionalDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// SetRate overrides the limit for one key
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[key] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter
	return limiter
}

// HostKey extracts the limiter key for a URL
func HostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return parsed.Host, nil
}
