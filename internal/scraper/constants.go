// Package scraper provides constants used throughout the scraping functionality.
package scraper

import "time"

// Timeout constants
const (
	HTTPTimeout    = 18 * time.Second
	BrowserTimeout = 40 * time.Second
)

// Where the markup of a response came from
const (
	SourceHTTP    = "http"
	SourceBrowser = "browser"
	SourceInline  = "inline"
)

// Browser configuration
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
	MaxRedirects        = 5
)

// Retry backoff bounds
const (
	BaseRetryDelay = 1 * time.Second
	MaxRetryDelay  = 5 * time.Second
)

// Blocked domains for browser requests
var BlockedDomains = []string{
	"doubleclick",
	"googlesyndication",
	"google-analytics",
	"facebook.com/tr",
	"taboola",
	"outbrain",
	"scorecardresearch",
	"chartbeat",
	"amazon-adsystem",
}
