// Package reader provides constants used by the readable-content extractor.
package reader

// ContentSelectors are tried in order; the first selector with any match
// wins and its first match becomes the content root.
var ContentSelectors = []string{
	"article",
	"[role='main']",
	".article-content",
	".post-content",
	".content",
	"main",
	"#content",
	".main-content",
}

// TextElements are the descendants of the content root that become blocks
const TextElements = "p, h1, h2, h3, h4, h5, h6, li"

// BoilerplateTags are pruned from the largest-text-block search
var BoilerplateTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// Strategies reported by the root locator
const (
	StrategySelector  = "selector"
	StrategyLargest   = "largest-text-block"
	StrategyDocument  = "document"
	StrategyReadable  = "readability"
	StrategyHeuristic = "heuristic"
)
