// Package reader extracts the readable part of a parsed web page: a title
// and an ordered list of headings, paragraphs and list items. The extractor
// reads the document tree and never modifies it.
package reader

import (
	"bytes"
	"io"
	"net/url"

	"reader-helper/internal/config"
	"reader-helper/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Extractor holds validated extraction settings. It has no mutable state
// and is safe for concurrent use.
type Extractor struct {
	cfg config.ExtractConfig
	log zerolog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger used for debug tracing
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// NewExtractor validates cfg and returns an Extractor. Invalid settings are
// reported here so that Extract itself never fails.
func NewExtractor(cfg config.ExtractConfig, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Extractor{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the settings the extractor was built with
func (e *Extractor) Config() config.ExtractConfig {
	return e.cfg
}

// Extract resolves the title and content root of doc and classifies the
// root's text elements. Repeated calls on the same tree return equal
// results.
func (e *Extractor) Extract(doc *goquery.Document) models.ExtractionResult {
	title := ResolveTitle(doc, e.cfg.DefaultTitle)
	root, strategy := locateRoot(doc)
	blocks := Classify(root, e.cfg.MinBlockLength)

	e.log.Debug().
		Str("strategy", strategy).
		Int("blocks", len(blocks)).
		Msg("extracted readable content")

	return models.ExtractionResult{
		Title:  title,
		Blocks: blocks,
	}
}

// ExtractHTML parses raw markup and extracts it with the configured engine.
// pageURL may be nil; it only helps the readability engine resolve links.
func (e *Extractor) ExtractHTML(r io.Reader, pageURL *url.URL) (models.ExtractionResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return models.ExtractionResult{}, &models.ContentExtractionError{Step: "read", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return models.ExtractionResult{}, &models.ContentExtractionError{Step: "parse", Err: err}
	}

	if e.cfg.Engine == config.EngineReadability {
		return e.extractReadable(raw, doc, pageURL), nil
	}
	return e.Extract(doc), nil
}
