package scraper

import (
	"context"
	"fmt"
	"time"

	"reader-helper/internal/config"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserClient renders pages in headless Chrome for sites that refuse or
// need scripts beyond a plain HTTP fetch
type BrowserClient struct {
	config config.ScrapeConfig
	log    zerolog.Logger
}

func NewBrowserClient(cfg config.ScrapeConfig, log zerolog.Logger) *BrowserClient {
	return &BrowserClient{
		config: cfg,
		log:    log,
	}
}

// Scrape renders targetURL with resources blocked first and retries with
// standard options when that fails. A challenge page is not retried.
func (b *BrowserClient) Scrape(ctx context.Context, targetURL string, timeout time.Duration) (string, string, error) {
	html, finalURL, err := b.ScrapeWithBrowserOptimized(ctx, targetURL, timeout)
	if err == nil || IsCloudflareBlock(err) || ctx.Err() != nil {
		return html, finalURL, err
	}
	b.log.Debug().Err(err).Str("url", targetURL).Msg("optimized render failed, retrying with standard options")
	return b.ScrapeWithBrowser(ctx, targetURL, timeout)
}

// ScrapeWithBrowser renders targetURL with standard options
func (b *BrowserClient) ScrapeWithBrowser(ctx context.Context, targetURL string, timeout time.Duration) (string, string, error) {
	opts := DefaultBrowserOptions()
	opts.UserAgent = b.config.UserAgent
	return b.scrapeWithOptions(ctx, targetURL, timeout, opts)
}

// ScrapeWithBrowserOptimized renders targetURL with images, fonts and
// stylesheets blocked
func (b *BrowserClient) ScrapeWithBrowserOptimized(ctx context.Context, targetURL string, timeout time.Duration) (string, string, error) {
	opts := OptimizedBrowserOptions()
	opts.UserAgent = b.config.UserAgent
	return b.scrapeWithOptions(ctx, targetURL, timeout, opts)
}

func (b *BrowserClient) scrapeWithOptions(ctx context.Context, targetURL string, timeout time.Duration, opts BrowserOptions) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, BuildChromeOptions(opts)...)
	defer cancelAlloc()

	ctx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	err := chromedp.Run(ctx,
		network.Enable(),
		network.SetBlockedURLS(BlockedURLPatterns(opts)),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to set up request blocking: %w", err)
	}

	html, finalURL, err := b.navigateAndExtract(ctx, targetURL)
	if err == nil && !LooksLikeCFBlock(html) {
		return html, finalURL, nil
	}
	blocked := err == nil
	lastErr := err
	b.log.Debug().Str("url", targetURL).Err(err).Msg("browser primary blocked, trying alternates")

	alternates, err := GenerateAlternateURLs(targetURL)
	if err != nil {
		return "", "", err
	}

	for _, altURL := range alternates {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		html, finalURL, err := b.navigateAndExtract(ctx, altURL)
		if err != nil {
			lastErr = err
			continue
		}
		if !LooksLikeCFBlock(html) {
			return html, finalURL, nil
		}
		blocked = true
	}

	if blocked {
		return "", "", fmt.Errorf("all browser URLs failed: %w", ErrBlockedPage)
	}
	return "", "", fmt.Errorf("all browser URLs failed: %w", lastErr)
}

// navigateAndExtract navigates to a URL and returns the rendered markup and
// the final location after redirects
func (b *BrowserClient) navigateAndExtract(ctx context.Context, targetURL string) (string, string, error) {
	var html string
	var finalURL string

	err := chromedp.Run(ctx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", "", fmt.Errorf("navigation failed: %w", err)
	}

	return html, finalURL, nil
}
