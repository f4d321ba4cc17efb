// Package scraper fetches web pages and turns them into readable content.
// Pages are fetched over HTTP first with AMP/mobile alternates, and through
// headless Chrome when that fails; the markup is then handed to the reader
// extractor and scored.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"reader-helper/internal/config"
	"reader-helper/internal/models"
	"reader-helper/internal/reader"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Scraper orchestrates the scraping process with HTTP-first, browser-fallback strategy
type Scraper struct {
	httpClient    *HTTPClient
	browserClient *BrowserClient
	extractor     *reader.Extractor
	config        config.ScrapeConfig
	log           zerolog.Logger
}

// NewScraper validates both configs and wires the fetch clients to an
// extractor
func NewScraper(extractCfg config.ExtractConfig, scrapeCfg config.ScrapeConfig, log zerolog.Logger) (*Scraper, error) {
	if err := scrapeCfg.Validate(); err != nil {
		return nil, err
	}
	extractor, err := reader.NewExtractor(extractCfg, reader.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &Scraper{
		httpClient:    NewHTTPClient(scrapeCfg, log),
		browserClient: NewBrowserClient(scrapeCfg, log),
		extractor:     extractor,
		config:        scrapeCfg,
		log:           log,
	}, nil
}

// HTTPClient exposes the plain HTTP fetcher
func (s *Scraper) HTTPClient() *HTTPClient {
	return s.httpClient
}

// Extractor returns the extractor used for every page
func (s *Scraper) Extractor() *reader.Extractor {
	return s.extractor
}

// ValidateURL accepts absolute http and https URLs only
func ValidateURL(targetURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(targetURL))
	if err != nil {
		return nil, &models.InvalidURLError{URL: targetURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &models.InvalidURLError{URL: targetURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &models.InvalidURLError{URL: targetURL, Err: errors.New("missing host")}
	}
	return u, nil
}

// ScrapeSmart implements the hybrid scraping strategy: HTTP first, browser fallback
func (s *Scraper) ScrapeSmart(ctx context.Context, targetURL string) (models.ScrapeResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := s.log.With().Str("requestId", requestID).Str("url", targetURL).Logger()

	u, err := ValidateURL(targetURL)
	if err != nil {
		return models.ScrapeResponse{}, err
	}
	targetURL = u.String()

	// Phase 1: HTTP with alternates
	httpCtx, cancelHTTP := context.WithTimeout(ctx, HTTPTimeout)
	html, finalURL, err := s.httpClient.FetchWithAlternatesGroup(httpCtx, targetURL)
	cancelHTTP()
	if err == nil {
		log.Debug().Str("finalUrl", finalURL).Msg("fetched over http")
		return s.build(html, targetURL, finalURL, SourceHTTP, requestID, start)
	}
	log.Debug().Err(err).Msg("http fetch failed")

	// Phase 2: browser fallback
	if s.config.BrowserFallback && ctx.Err() == nil {
		html, finalURL, browserErr := s.browserClient.Scrape(ctx, targetURL, BrowserTimeout)
		if browserErr == nil {
			log.Debug().Str("finalUrl", finalURL).Msg("fetched with browser")
			return s.build(html, targetURL, finalURL, SourceBrowser, requestID, start)
		}
		log.Debug().Err(browserErr).Msg("browser fetch failed")
		err = errors.Join(err, browserErr)
	}

	return models.ScrapeResponse{}, s.classifyError(ctx, u, err)
}

// classifyError maps a fetch failure onto the typed errors callers switch on.
// Only a fetch that was actually served a challenge page counts as blocked.
func (s *Scraper) classifyError(ctx context.Context, u *url.URL, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		return &models.TimeoutError{Operation: "scrape", Timeout: timeoutString(ctx), Err: cause}
	}
	if IsCloudflareBlock(err) {
		return &models.CloudflareBlockError{Domain: u.Hostname(), Err: err}
	}
	return fmt.Errorf("scraping failed: %w", err)
}

func timeoutString(ctx context.Context) string {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline).Round(time.Millisecond).String()
	}
	return HTTPTimeout.String()
}

// ScrapeSmartWithTimeout runs ScrapeSmart with a timeout
func (s *Scraper) ScrapeSmartWithTimeout(ctx context.Context, targetURL string, timeoutMs int) (models.ScrapeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	return s.ScrapeSmart(ctx, targetURL)
}

// ScrapeHTML extracts markup the caller already has. pageURL is optional
// and only recorded in the metadata and used to resolve links.
func (s *Scraper) ScrapeHTML(html string, pageURL string) (models.ScrapeResponse, error) {
	start := time.Now()
	if pageURL != "" {
		if _, err := ValidateURL(pageURL); err != nil {
			return models.ScrapeResponse{}, err
		}
	}
	return s.build(html, pageURL, pageURL, SourceInline, uuid.NewString(), start)
}

func (s *Scraper) build(html, requestedURL, finalURL, source, requestID string, start time.Time) (models.ScrapeResponse, error) {
	var pageURL *url.URL
	if finalURL != "" {
		pageURL, _ = url.Parse(finalURL)
	}

	result, err := s.extractor.ExtractHTML(strings.NewReader(html), pageURL)
	if err != nil {
		return models.ScrapeResponse{}, err
	}

	return models.ScrapeResponse{
		Title:   result.Title,
		Blocks:  result.Blocks,
		Quality: ScoreContentQuality(result, html),
		Metadata: models.Metadata{
			RequestID:  requestID,
			URL:        requestedURL,
			FinalURL:   finalURL,
			Source:     source,
			Engine:     s.extractor.Config().Engine,
			ScrapedAt:  start.UTC(),
			DurationMs: time.Since(start).Milliseconds(),
		},
	}, nil
}
