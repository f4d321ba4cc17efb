package models

import (
	"fmt"
	"time"
)

// BlockKind is the semantic type of an extracted content block
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list_item"
	default:
		return "paragraph"
	}
}

// MarshalText encodes the kind by name so JSON output stays readable
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText
func (k *BlockKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "heading":
		*k = KindHeading
	case "list_item":
		*k = KindListItem
	case "paragraph":
		*k = KindParagraph
	default:
		return fmt.Errorf("unknown block kind %q", string(b))
	}
	return nil
}

// ContentBlock is one classified unit of readable text.
// Level is set only for headings (1..6).
type ContentBlock struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text"`
}

// Heading builds a heading block of the given level
func Heading(level int, text string) ContentBlock {
	return ContentBlock{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph builds a paragraph block
func Paragraph(text string) ContentBlock {
	return ContentBlock{Kind: KindParagraph, Text: text}
}

// ListItem builds a list item block
func ListItem(text string) ContentBlock {
	return ContentBlock{Kind: KindListItem, Text: text}
}

// ExtractionResult is the readable view of a page
type ExtractionResult struct {
	Title  string         `json:"title"`
	Blocks []ContentBlock `json:"blocks"`
}

// PanelState mirrors the reader panel's presentation settings.
// It is owned by the caller and only read by renderers.
type PanelState struct {
	Enabled    bool `json:"enabled"`
	Open       bool `json:"open"`
	DarkMode   bool `json:"darkMode"`
	FontSizePx int  `json:"fontSizePx"`
}

const (
	DefaultFontSizePx = 16
	MinFontSizePx     = 8
	MaxFontSizePx     = 48
)

// DefaultPanelState returns a closed, light panel at the default font size
func DefaultPanelState() PanelState {
	return PanelState{FontSizePx: DefaultFontSizePx}
}

// WithFontDelta returns a copy with the font size adjusted by delta pixels,
// clamped to [MinFontSizePx, MaxFontSizePx]
func (p PanelState) WithFontDelta(delta int) PanelState {
	size := p.FontSizePx
	if size == 0 {
		size = DefaultFontSizePx
	}
	size += delta
	if size < MinFontSizePx {
		size = MinFontSizePx
	}
	if size > MaxFontSizePx {
		size = MaxFontSizePx
	}
	p.FontSizePx = size
	return p
}

// ScrapeRequest represents the incoming Lambda event
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeResponse represents the successful scraping result
type ScrapeResponse struct {
	Title    string         `json:"title"`
	Blocks   []ContentBlock `json:"blocks"`
	Quality  ContentQuality `json:"quality"`
	Metadata Metadata       `json:"metadata"`
}

// Result returns the extraction part of the response
func (r ScrapeResponse) Result() ExtractionResult {
	return ExtractionResult{Title: r.Title, Blocks: r.Blocks}
}

// ContentQuality represents quality metrics for extracted content
type ContentQuality struct {
	Score              int     `json:"score"`              // 0-100 confidence score
	TextToHTMLRatio    float64 `json:"textToHtmlRatio"`    // Higher is better
	BlockCount         int     `json:"blockCount"`         // Number of emitted blocks
	ParagraphCount     int     `json:"paragraphCount"`     // Paragraph blocks only
	AvgParagraphLength int     `json:"avgParagraphLength"` // Average characters per paragraph
	HasHeaders         bool    `json:"hasHeaders"`         // Contains headings
	LinkDensity        float64 `json:"linkDensity"`        // Links per 1000 chars (lower is better)
	WordCount          int     `json:"wordCount"`
}

// BlockedResponse represents when scraping is blocked
type BlockedResponse struct {
	Error    string   `json:"error"`
	Provider string   `json:"provider"`
	Domain   string   `json:"domain"`
	Metadata Metadata `json:"metadata"`
}

// ErrorResponse represents error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Metadata contains request metadata
type Metadata struct {
	RequestID  string    `json:"requestId"`
	URL        string    `json:"url"`
	FinalURL   string    `json:"finalUrl,omitempty"`
	Source     string    `json:"source,omitempty"` // "http", "browser" or "inline"
	Engine     string    `json:"engine,omitempty"`
	ScrapedAt  time.Time `json:"scrapedAt"`
	DurationMs int64     `json:"durationMs"`
}
