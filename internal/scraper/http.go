package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"reader-helper/internal/config"
	"reader-helper/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
)

// HTTPClient fetches pages over plain HTTP with retries and AMP/mobile
// alternates
type HTTPClient struct {
	client  *http.Client
	config  config.ScrapeConfig
	regexes map[string]*regexp.Regexp
	log     zerolog.Logger

	// Alternates produces the fallback URLs tried after a blocked primary
	Alternates func(originalURL string) ([]string, error)
	// Backoff returns the delay before retry number attempt (0-based)
	Backoff func(attempt int) time.Duration
}

func NewHTTPClient(cfg config.ScrapeConfig, log zerolog.Logger) *HTTPClient {
	// Configure HTTP client with connection pooling
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client:     client,
		config:     cfg,
		regexes:    config.CompileRegexes(),
		log:        log,
		Alternates: GenerateAlternateURLs,
		Backoff:    exponentialBackoff,
	}
}

// exponentialBackoff doubles from BaseRetryDelay up to MaxRetryDelay
func exponentialBackoff(attempt int) time.Duration {
	delay := BaseRetryDelay << attempt
	if delay > MaxRetryDelay || delay <= 0 {
		delay = MaxRetryDelay
	}
	return delay
}

// setRequestHeaders sets browser-like headers on the request
func (h *HTTPClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Referer", "https://www.google.com/")
}

// FetchHTML fetches a page, retrying server errors and network failures up
// to MaxRetries times. The body is decoded to UTF-8.
func (h *HTTPClient) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := h.Backoff(attempt - 1)
			h.log.Debug().Str("url", targetURL).Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying fetch")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		html, err := h.fetchOnce(ctx, targetURL)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			return "", err
		}
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// retryable reports whether a failed fetch is worth repeating
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (h *HTTPClient) fetchOnce(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic a real browser
	h.setRequestHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Challenge pages come back as 403 or 503 with the interstitial as body
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		cause := errors.New(http.StatusText(resp.StatusCode))
		if LooksLikeCFBlock(string(snippet)) {
			cause = ErrBlockedPage
		}
		return "", &models.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        targetURL,
			Err:        cause,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !h.regexes["htmlMedia"].MatchString(contentType) {
		return "", fmt.Errorf("non-HTML content-type: %q", contentType)
	}

	// Read response body with size limit, decoding the declared charset
	limited := io.LimitReader(resp.Body, int64(h.config.SizeLimitBytes))
	decoded, err := charset.NewReader(limited, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

// GenerateAlternateURLs creates alternative URLs for AMP/mobile fallback
func GenerateAlternateURLs(originalURL string) ([]string, error) {
	u, err := url.Parse(originalURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	alternates := make([]string, 0, 4)

	// AMP prefix (/amp/path)
	if !strings.HasPrefix(u.Path, "/amp/") {
		ampURL := *u
		ampURL.Path = "/amp" + u.Path
		alternates = append(alternates, ampURL.String())
	}

	// AMP suffix (/path/amp)
	if !strings.HasSuffix(u.Path, "/amp") {
		ampURL := *u
		ampURL.Path = strings.TrimSuffix(ampURL.Path, "/") + "/amp"
		alternates = append(alternates, ampURL.String())
	}

	// Query AMP
	queryURL := *u
	q := queryURL.Query()
	q.Set("outputType", "amp")
	queryURL.RawQuery = q.Encode()
	alternates = append(alternates, queryURL.String())

	// m. subdomain
	if !strings.HasPrefix(u.Hostname(), "m.") {
		mobileURL := *u
		mobileURL.Host = "m." + u.Host
		alternates = append(alternates, mobileURL.String())
	}

	return alternates, nil
}

// shouldTryAlternates reports whether a failed primary fetch looks like a
// block that an AMP or mobile page may avoid
func shouldTryAlternates(err error) bool {
	var httpErr *models.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	switch httpErr.StatusCode {
	case http.StatusForbidden, http.StatusNotAcceptable, http.StatusUnavailableForLegalReasons:
		return true
	}
	return httpErr.StatusCode >= 500
}

// FetchWithAlternatesGroup tries the primary URL first, then races the
// alternates and returns the first one that is not blocked. When every
// attempt fails the error wraps ErrBlockedPage only if one of them was
// served a challenge page.
func (h *HTTPClient) FetchWithAlternatesGroup(ctx context.Context, targetURL string) (string, string, error) {
	html, err := h.FetchHTML(ctx, targetURL)
	if err == nil && !LooksLikeCFBlock(html) {
		return html, targetURL, nil
	}
	if err != nil && !shouldTryAlternates(err) {
		return "", "", err
	}

	var blocked atomic.Bool
	if err == nil || errors.Is(err, ErrBlockedPage) {
		blocked.Store(true)
	}

	alternates, altErr := h.Alternates(targetURL)
	if altErr != nil {
		return "", "", altErr
	}
	h.log.Debug().Str("url", targetURL).Int("alternates", len(alternates)).Err(err).Msg("primary fetch blocked, trying alternates")

	type fetched struct {
		html string
		url  string
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(raceCtx)
	results := make(chan fetched, len(alternates))

	for _, altURL := range alternates {
		g.Go(func() error {
			html, err := h.FetchHTML(gctx, altURL)
			if err != nil {
				if errors.Is(err, ErrBlockedPage) {
					blocked.Store(true)
				}
				return nil
			}
			if LooksLikeCFBlock(html) {
				blocked.Store(true)
				return nil
			}
			results <- fetched{html: html, url: altURL}
			cancel()
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	if result, ok := <-results; ok {
		return result.html, result.url, nil
	}
	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}
	if blocked.Load() {
		return "", "", fmt.Errorf("all alternate URLs failed: %w", ErrBlockedPage)
	}
	return "", "", fmt.Errorf("all alternate URLs failed: %w", err)
}
