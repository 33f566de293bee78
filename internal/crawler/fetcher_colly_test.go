package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func collyTestConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

func TestCollyFetcher_Fetch(t *testing.T) {
	t.Parallel()
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html><body><h1>cam</h1></body></html>"))
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(collyTestConfig(), zap.NewNop())
	page, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Equal(t, MethodHTTP, page.Method)
	require.Contains(t, page.HTML, "<h1>cam</h1>")
	require.Equal(t, len(page.HTML), page.ByteLen)
	require.Contains(t, defaultUserAgents, gotUA)
	require.Equal(t, acceptLanguageHeader, gotAccept)
}

func TestCollyFetcher_ServerErrorIsTransient(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(collyTestConfig(), zap.NewNop())
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	require.True(t, IsTransient(err))
}

func TestCollyFetcher_ConnectionRefusedIsTransient(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	fetcher := NewCollyFetcher(collyTestConfig(), zap.NewNop())
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	require.True(t, IsTransient(err))
}

func TestCollyFetcher_MalformedURLIsPermanent(t *testing.T) {
	t.Parallel()
	fetcher := NewCollyFetcher(collyTestConfig(), zap.NewNop())

	for _, raw := range []string{"not a url at all", "ftp://example.com/list", "https://"} {
		_, err := fetcher.Fetch(context.Background(), raw)
		require.Error(t, err)
		require.False(t, IsTransient(err), "url %q should not be retried", raw)
	}
}

func TestCollyFetcher_NormalizesCharset(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		// "café" with a latin-1 encoded é
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xE9})
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(collyTestConfig(), zap.NewNop())
	page, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Equal(t, "café", page.HTML)
}

func TestCollyFetcher_RotatesUserAgents(t *testing.T) {
	t.Parallel()
	seen := make(map[string]struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("User-Agent")] = struct{}{}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	cfg := collyTestConfig()
	cfg.UserAgents = []string{"agent-a", "agent-b"}
	fetcher := NewCollyFetcher(cfg, zap.NewNop())

	for i := 0; i < 4; i++ {
		_, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	require.Len(t, seen, 2)
}
