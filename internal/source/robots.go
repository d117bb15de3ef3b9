package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// RobotsChecker checks robots.txt compliance before essays are fetched
type RobotsChecker struct {
	cache      *gocache.Cache
	httpClient *http.Client
	agent      string
}

// NewRobotsChecker creates a checker; parsed robots.txt files are kept for ttl
func NewRobotsChecker(client *http.Client, userAgent string, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RobotsChecker{
		cache:      gocache.New(ttl, 2*ttl),
		httpClient: client,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay to honor.
// An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.robotsData(ctx, parsed)
	if err != nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	allowed := data.TestAgent(path, r.agent)

	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (r *RobotsChecker) robotsData(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse treats 4xx as allow-all and 5xx as disallow-all
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache.SetDefault(key, data)
	return data, nil
}

// NormalizeUserAgent reduces a user agent to its product token
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
