package render

import (
	"fmt"
	"strings"

	"reader-helper/internal/models"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownRenderer converts the panel content to Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the escaped content markup with html-to-markdown.
func (r *MarkdownRenderer) Render(result models.ExtractionResult) ([]byte, error) {
	var b strings.Builder
	writeContent(&b, result)

	markdown, err := htmltomarkdown.ConvertString(b.String())
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return []byte(strings.TrimSpace(markdown) + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}
