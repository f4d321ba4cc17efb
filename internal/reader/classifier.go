package reader

import (
	"strings"

	"reader-helper/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// Classify turns the text elements below root into content blocks, in
// document order. Elements whose trimmed text is shorter than minLength
// characters are dropped; empty text is always dropped. Nested matches
// (a paragraph inside a list item) each produce their own block.
func Classify(root *goquery.Selection, minLength int) []models.ContentBlock {
	blocks := make([]models.ContentBlock, 0)
	if root == nil {
		return blocks
	}

	root.Find(TextElements).Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || textLength(text) < minLength {
			return
		}
		blocks = append(blocks, classifyElement(goquery.NodeName(s), text))
	})

	return blocks
}

func classifyElement(tagName string, text string) models.ContentBlock {
	tagName = strings.ToLower(tagName)
	if level := headingLevel(tagName); level > 0 {
		return models.Heading(level, text)
	}
	if tagName == "li" {
		return models.ListItem(text)
	}
	return models.Paragraph(text)
}

// headingLevel parses h1..h6; anything else is 0.
func headingLevel(tagName string) int {
	if len(tagName) != 2 || tagName[0] != 'h' {
		return 0
	}
	level := int(tagName[1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}
