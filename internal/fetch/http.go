package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brogergvhs/polscrape/internal/util"
)

const maxBodyBytes = 32 << 20

type HTTP struct {
	client  *http.Client
	retries int
	log     Logger
}

func NewHTTP(opts Options) (*HTTP, error) {
	log := logger(opts)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          opts.Timeout,
		UserAgent:        util.PickUserAgent(opts.UserAgent),
		Cookie:           opts.Cookie,
		CookieFile:       opts.CookieFile,
		CloudflareBypass: opts.CloudflareBypass,
		DebugLogger:      log,
	})
	if err != nil {
		return nil, err
	}

	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}

	return &HTTP{client: client, retries: retries, log: log}, nil
}

func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := util.DoWithRetry(h.client, req, h.retries, 500*time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("%s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", url, err)
	}
	h.log.Debugf("fetched %s (%s)", url, util.Human(int64(len(data))))

	return checkContent(url, string(data))
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
