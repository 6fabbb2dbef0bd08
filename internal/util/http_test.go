package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  sid=abc  \nother=1\n"), 0o600))

	assert.Equal(t, "a=1", CookieHeader(" a=1 ", ""))
	assert.Equal(t, "sid=abc", CookieHeader("", path))
	assert.Equal(t, "a=1; sid=abc", CookieHeader("a=1", path))
	assert.Equal(t, "a=1", CookieHeader("a=1", filepath.Join(t.TempDir(), "missing")))
}

func TestNewHTTPClient_SetsHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(HTTPClientOptions{Timeout: time.Second, UserAgent: "polscrape-test", Cookie: "sid=1"})
	require.NoError(t, err)

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	h := <-headers
	assert.Equal(t, "polscrape-test", h.Get("User-Agent"))
	assert.Equal(t, "sid=1", h.Get("Cookie"))
}

func TestDoWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var n atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if n.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		t.Cleanup(srv.Close)

		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, int32(3), n.Load())
	})

	t.Run("gives up", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = DoWithRetry(srv.Client(), req, 2, time.Millisecond)
		require.ErrorContains(t, err, "HTTP 503 after 2 attempts")
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		t.Parallel()

		var n atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			n.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, int32(1), n.Load())
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = DoWithRetry(srv.Client(), req, 5, time.Second)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
