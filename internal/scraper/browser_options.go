// Package scraper provides browser configuration options for Chrome automation.
package scraper

import (
	"github.com/chromedp/chromedp"
)

// BrowserOptions contains configuration for browser automation
type BrowserOptions struct {
	Optimized    bool
	BlockImages  bool
	BlockFonts   bool
	BlockCSS     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

// DefaultBrowserOptions returns standard browser options
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// OptimizedBrowserOptions skips resources that never carry article text
func OptimizedBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Optimized:    true,
		BlockImages:  true,
		BlockFonts:   true,
		BlockCSS:     true,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// BuildChromeOptions creates Chrome options based on BrowserOptions
func BuildChromeOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	chromeOpts := make([]chromedp.ExecAllocatorOption, 0, len(chromedp.DefaultExecAllocatorOptions)+10)
	chromeOpts = append(chromeOpts, chromedp.DefaultExecAllocatorOptions[:]...)
	chromeOpts = append(chromeOpts,
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-features", "VizDisplayCompositor"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	if opts.Optimized {
		if opts.BlockImages {
			chromeOpts = append(chromeOpts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
		}
		chromeOpts = append(chromeOpts,
			chromedp.Flag("disable-plugins", true),
			chromedp.Flag("disable-extensions", true),
		)
	}

	return chromeOpts
}

// BlockedURLPatterns returns the network patterns Chrome should refuse to
// load for opts: ad and tracker domains plus optional resource types
func BlockedURLPatterns(opts BrowserOptions) []string {
	patterns := make([]string, 0, len(BlockedDomains)+8)
	for _, domain := range BlockedDomains {
		patterns = append(patterns, "*"+domain+"*")
	}

	if !opts.Optimized {
		return patterns
	}
	if opts.BlockImages {
		patterns = append(patterns, "*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg")
	}
	if opts.BlockFonts {
		patterns = append(patterns, "*.woff", "*.woff2", "*.ttf", "*.otf")
	}
	if opts.BlockCSS {
		patterns = append(patterns, "*.css")
	}
	return patterns
}
