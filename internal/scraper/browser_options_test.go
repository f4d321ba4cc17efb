package scraper

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
)

func TestBlockedURLPatterns(t *testing.T) {
	standard := BlockedURLPatterns(DefaultBrowserOptions())
	assert.Len(t, standard, len(BlockedDomains))
	assert.Contains(t, standard, "*doubleclick*")

	optimized := BlockedURLPatterns(OptimizedBrowserOptions())
	assert.Contains(t, optimized, "*.png")
	assert.Contains(t, optimized, "*.woff2")
	assert.Contains(t, optimized, "*.css")
}

func TestBuildChromeOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	opts := DefaultBrowserOptions()
	assert.Len(t, BuildChromeOptions(opts), base+6)

	opts.UserAgent = "reader-test/1.0"
	assert.Len(t, BuildChromeOptions(opts), base+7)

	optimized := OptimizedBrowserOptions()
	assert.Len(t, BuildChromeOptions(optimized), base+9)
}
