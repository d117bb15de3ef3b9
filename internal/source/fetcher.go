package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/util"
	"github.com/ppiankov/essayfb/internal/worker"
)

// ErrDisallowed means robots.txt forbids fetching the essay
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher downloads essays over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher from the HTTP and rate-limiting settings
func NewFetcher(cfg model.HTTPConfig, limits model.RateLimitingConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		robots:     NewRobotsChecker(client, cfg.UserAgent, time.Hour),
		limiter:    worker.NewLimiter(limits.RequestsPerSecond, limits.BurstSize),
		logger:     logger,
	}
}

// Fetch retrieves rawURL and returns its prose. HTML pages are reduced to
// their visible text; plain text and markdown are returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}

	host, err := worker.HostKey(rawURL)
	if err != nil {
		return nil, err
	}
	if err := f.limiter.WaitWithDelay(ctx, host, delay); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,text/markdown;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	contentType := resp.Header.Get("Content-Type")
	f.logger.Debug("essay fetched",
		zap.String("url", finalURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	doc := &Document{
		Source:      rawURL,
		FinalURL:    finalURL,
		ContentType: contentType,
		Title:       titleFromURL(finalURL),
		FetchedAt:   time.Now().UTC(),
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "" || mediaType == "text/html" || mediaType == "application/xhtml+xml" {
		title, text, err := ExtractText(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		if title != "" {
			doc.Title = title
		}
		doc.Text = text
		return doc, nil
	}

	if !strings.HasPrefix(mediaType, "text/") {
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
	doc.Text = string(body)
	return doc, nil
}

// titleFromURL derives a readable title from the last path segment
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	return last
}
