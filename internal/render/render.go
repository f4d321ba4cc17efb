// Package render turns an extraction result into the formats the reader
// can hand out: panel HTML, Markdown, plain text, JSON and PDF.
package render

import (
	"fmt"
	"strings"

	"reader-helper/internal/models"
)

// Output format names accepted by ForFormat
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
)

// Formats lists every supported format name
var Formats = []string{FormatHTML, FormatMarkdown, FormatText, FormatJSON, FormatPDF}

// Renderer converts an extraction result into a final output format.
type Renderer interface {
	Render(result models.ExtractionResult) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
	// ContentType returns the MIME type of the rendered bytes.
	ContentType() string
}

// ForFormat returns the renderer for name. state only affects the
// presentational formats (html, pdf).
func ForFormat(name string, state models.PanelState) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatHTML, "":
		return NewHTMLRenderer(state), nil
	case FormatMarkdown, "md":
		return NewMarkdownRenderer(), nil
	case FormatText, "txt":
		return NewTextRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(state), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

// group folds consecutive list items into one run so that renderers can
// emit a single list for them
type group struct {
	list   bool
	blocks []models.ContentBlock
}

func groupBlocks(blocks []models.ContentBlock) []group {
	var groups []group
	for _, b := range blocks {
		isItem := b.Kind == models.KindListItem
		if isItem && len(groups) > 0 && groups[len(groups)-1].list {
			last := &groups[len(groups)-1]
			last.blocks = append(last.blocks, b)
			continue
		}
		groups = append(groups, group{list: isItem, blocks: []models.ContentBlock{b}})
	}
	return groups
}

// headingLevel clamps a block level to a valid h1..h6
func headingLevel(b models.ContentBlock) int {
	switch {
	case b.Level < 1:
		return 1
	case b.Level > 6:
		return 6
	}
	return b.Level
}
