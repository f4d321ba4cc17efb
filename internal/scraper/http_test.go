package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"reader-helper/internal/config"
	"reader-helper/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScrapeConfig() config.ScrapeConfig {
	return config.ScrapeConfig{
		UserAgent:      "reader-test/1.0",
		TimeoutMs:      5000,
		SizeLimitBytes: 1 << 20,
		MaxRetries:     2,
		ChromeMajor:    133,
	}
}

func newTestHTTPClient(t *testing.T, cfg config.ScrapeConfig) *HTTPClient {
	t.Helper()
	h := NewHTTPClient(cfg, zerolog.Nop())
	h.Backoff = func(int) time.Duration { return time.Millisecond }
	return h
}

func TestFetchHTML_SendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>hello</p>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	html, err := h.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", html)
	assert.Equal(t, "reader-test/1.0", gotUA)
	assert.Contains(t, gotAccept, "text/html")
}

func TestFetchHTML_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>finally</p>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	html, err := h.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>finally</p>", html)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchHTML_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testScrapeConfig()
	cfg.MaxRetries = 1
	h := newTestHTTPClient(t, cfg)

	_, err := h.FetchHTML(context.Background(), srv.URL)
	var httpErr *models.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchHTML_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	_, err := h.FetchHTML(context.Background(), srv.URL)

	var httpErr *models.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.False(t, httpErr.Retryable())
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchHTML_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	_, err := h.FetchHTML(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-HTML content-type")
}

func TestFetchHTML_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	html, err := h.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", html)
}

func TestFetchHTML_HonoursSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	cfg := testScrapeConfig()
	cfg.SizeLimitBytes = 10
	h := newTestHTTPClient(t, cfg)

	html, err := h.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, html, 10)
}

func TestFetchHTML_StopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	h.Backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.FetchHTML(ctx, srv.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, time.Second, exponentialBackoff(0))
	assert.Equal(t, 2*time.Second, exponentialBackoff(1))
	assert.Equal(t, 4*time.Second, exponentialBackoff(2))
	assert.Equal(t, MaxRetryDelay, exponentialBackoff(3))
	assert.Equal(t, MaxRetryDelay, exponentialBackoff(70))
}

func TestGenerateAlternateURLs(t *testing.T) {
	alternates, err := GenerateAlternateURLs("https://example.com/news/story")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/amp/news/story",
		"https://example.com/news/story/amp",
		"https://example.com/news/story?outputType=amp",
		"https://m.example.com/news/story",
	}, alternates)

	alternates, err = GenerateAlternateURLs("https://m.example.com/amp/story/amp?a=1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://m.example.com/amp/story/amp?a=1&outputType=amp",
	}, alternates)
}

func TestFetchWithAlternatesGroup_FallsBackToAMP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/amp/story" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<article><p>AMP version of the story.</p></article>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	h.Alternates = func(string) ([]string, error) {
		return []string{srv.URL + "/blocked", srv.URL + "/amp/story"}, nil
	}

	html, finalURL, err := h.FetchWithAlternatesGroup(context.Background(), srv.URL+"/story")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/amp/story", finalURL)
	assert.Contains(t, html, "AMP version")
}

func TestFetchWithAlternatesGroup_SkipsCloudflarePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<title>Attention Required! | Cloudflare</title>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	h.Alternates = func(string) ([]string, error) {
		return []string{srv.URL + "/amp"}, nil
	}

	_, _, err := h.FetchWithAlternatesGroup(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsCloudflareBlock(err))
}

func TestFetchWithAlternatesGroup_NotFoundSkipsAlternates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	h.Alternates = func(string) ([]string, error) {
		t.Fatal("alternates should not be generated for a 404")
		return nil, nil
	}

	_, _, err := h.FetchWithAlternatesGroup(context.Background(), srv.URL)
	var httpErr *models.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestLooksLikeCFBlock(t *testing.T) {
	assert.True(t, LooksLikeCFBlock("<h2>Why have I been blocked?</h2>"))
	assert.True(t, LooksLikeCFBlock("Cloudflare Ray ID: 1234"))
	assert.False(t, LooksLikeCFBlock("<p>An ordinary article.</p>"))
}

func TestFetchHTML_ChallengeStatusCarriesBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<p>Performance & security by Cloudflare</p>"))
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	_, err := h.FetchHTML(context.Background(), srv.URL)

	var httpErr *models.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.ErrorIs(t, err, ErrBlockedPage)
}

func TestFetchWithAlternatesGroup_PlainFailuresAreNotBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := newTestHTTPClient(t, testScrapeConfig())
	h.Alternates = func(string) ([]string, error) {
		return []string{srv.URL + "/amp", srv.URL + "/m"}, nil
	}

	_, _, err := h.FetchWithAlternatesGroup(context.Background(), srv.URL+"/")
	require.Error(t, err)
	assert.False(t, IsCloudflareBlock(err))

	var httpErr *models.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}
