// Package source loads essay text from files, stdin or URLs.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Document is a loaded essay before segmentation
type Document struct {
	Source      string    `json:"source"`
	FinalURL    string    `json:"final_url,omitempty"`
	Title       string    `json:"title,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Text        string    `json:"-"`
}

// Loader resolves an essay source string to its text
type Loader struct {
	fetcher  *Fetcher
	stdin    io.Reader
	maxBytes int64
}

// NewLoader creates a loader; fetcher may be nil to disable URLs
func NewLoader(fetcher *Fetcher, maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &Loader{fetcher: fetcher, stdin: os.Stdin, maxBytes: maxBytes}
}

// IsURL reports whether src names an http(s) resource
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads src: "-" is stdin, http(s) URLs are fetched, anything else is a
// file path. Files ending in .html or .htm are reduced to visible text.
func (l *Loader) Load(ctx context.Context, src string) (*Document, error) {
	switch {
	case src == "-":
		data, err := io.ReadAll(io.LimitReader(l.stdin, l.maxBytes))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Document{Source: "stdin", Text: string(data), FetchedAt: time.Now().UTC()}, nil

	case IsURL(src):
		if l.fetcher == nil {
			return nil, fmt.Errorf("URL sources are not enabled: %s", src)
		}
		return l.fetcher.Fetch(ctx, src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open essay: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read essay: %w", err)
	}

	base := filepath.Base(src)
	doc := &Document{
		Source:    src,
		Title:     strings.TrimSuffix(base, filepath.Ext(base)),
		FetchedAt: time.Now().UTC(),
		Text:      string(data),
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".html", ".htm":
		title, text, err := ExtractText(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		if title != "" {
			doc.Title = title
		}
		doc.Text = text
	}
	return doc, nil
}
