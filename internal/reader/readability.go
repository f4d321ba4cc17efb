package reader

import (
	"bytes"
	"net/url"
	"strings"

	"reader-helper/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// extractReadable lets go-readability isolate the article and classifies
// its output. Anything readability cannot handle goes through the
// heuristic path instead.
func (e *Extractor) extractReadable(raw []byte, doc *goquery.Document, pageURL *url.URL) models.ExtractionResult {
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		e.log.Debug().Err(err).Str("fallback", StrategyHeuristic).Msg("readability found no article")
		return e.Extract(doc)
	}

	articleDoc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		e.log.Debug().Err(err).Str("fallback", StrategyHeuristic).Msg("readability output did not parse")
		return e.Extract(doc)
	}

	blocks := Classify(articleDoc.Selection, e.cfg.MinBlockLength)
	if len(blocks) == 0 {
		e.log.Debug().Str("fallback", StrategyHeuristic).Msg("readability article has no blocks")
		return e.Extract(doc)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = ResolveTitle(doc, e.cfg.DefaultTitle)
	}

	e.log.Debug().
		Str("strategy", StrategyReadable).
		Int("blocks", len(blocks)).
		Msg("extracted readable content")

	return models.ExtractionResult{
		Title:  title,
		Blocks: blocks,
	}
}
