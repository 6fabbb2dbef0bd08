package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownRenderer(t *testing.T) {
	t.Parallel()

	_, err := New("lynx", Options{})
	require.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestNew_DefaultsToHTTP(t *testing.T) {
	t.Parallel()

	for _, r := range []string{"", "HTTP", " http "} {
		f, err := New(r, Options{})
		require.NoError(t, err)
		assert.IsType(t, &HTTP{}, f)
		require.NoError(t, f.Close())
	}
}

func TestHTTP_Fetch(t *testing.T) {
	t.Parallel()

	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	})
	mux.HandleFunc("/blank", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("  \n "))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, _ *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("<p>second try</p>"))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.UserAgent()))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f, err := NewHTTP(Options{Timeout: 5 * time.Second, Retries: 2, UserAgent: "polscrape-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	assert.Contains(t, body, "hi")

	_, err = f.Fetch(ctx, srv.URL+"/blank")
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	require.ErrorContains(t, err, "HTTP 404")

	body, err = f.Fetch(ctx, srv.URL+"/flaky")
	require.NoError(t, err)
	assert.Equal(t, "<p>second try</p>", body)

	body, err = f.Fetch(ctx, srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, "polscrape-test", body)
}

func TestHTTP_FetchCancelled(t *testing.T) {
	t.Parallel()

	f, err := NewHTTP(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Fetch(ctx, "http://127.0.0.1:1/")
	require.ErrorIs(t, err, context.Canceled)
}
