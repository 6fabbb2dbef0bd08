// Package fetch provides the page fetchers: plain HTTP, headless Chrome and
// Playwright. Every fetcher is safe for concurrent use.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyContent    = errors.New("empty content")
	ErrUnknownRenderer = errors.New("unknown renderer")
)

const (
	RendererHTTP       = "http"
	RendererChrome     = "chrome"
	RendererPlaywright = "playwright"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

type Logger interface {
	Debugf(format string, args ...any)
}

type Options struct {
	Timeout time.Duration
	// RenderWait is how long browsers let client-side scripts run after
	// navigation before the DOM is read.
	RenderWait       time.Duration
	Retries          int
	UserAgent        string
	Cookie           string
	CookieFile       string
	CloudflareBypass bool
	Logger           Logger
}

func New(renderer string, opts Options) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(renderer)) {
	case "", RendererHTTP:
		return NewHTTP(opts)
	case RendererChrome:
		return NewChrome(opts)
	case RendererPlaywright:
		return NewPlaywright(opts)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, renderer)
	}
}

func checkContent(url, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%s: %w", url, ErrEmptyContent)
	}

	return body, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

func logger(opts Options) Logger {
	if opts.Logger == nil {
		return nopLogger{}
	}

	return opts.Logger
}
