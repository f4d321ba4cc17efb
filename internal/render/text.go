package render

import (
	"strings"

	"reader-helper/internal/models"
)

// TextRenderer writes plain text with blank lines between blocks.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render keeps list items of one run on consecutive lines.
func (r *TextRenderer) Render(result models.ExtractionResult) ([]byte, error) {
	parts := make([]string, 0, len(result.Blocks)+1)
	parts = append(parts, result.Title)

	for _, g := range groupBlocks(result.Blocks) {
		if !g.list {
			parts = append(parts, g.blocks[0].Text)
			continue
		}
		items := make([]string, len(g.blocks))
		for i, item := range g.blocks {
			items[i] = "- " + item.Text
		}
		parts = append(parts, strings.Join(items, "\n"))
	}

	return []byte(strings.Join(parts, "\n\n") + "\n"), nil
}

func (r *TextRenderer) Extension() string {
	return ".txt"
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}
