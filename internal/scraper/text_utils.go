package scraper

import (
	"errors"
	"strings"
	"unicode/utf8"

	"reader-helper/internal/config"
	"reader-helper/internal/models"
)

// CalculateContentMetrics calculates basic content quality metrics over the
// extracted blocks
func CalculateContentMetrics(blocks []models.ContentBlock) (wordCount, paragraphCount, avgParagraphLength int) {
	totalChars := 0

	for _, b := range blocks {
		wordCount += len(strings.Fields(b.Text))
		if b.Kind != models.KindParagraph {
			continue
		}
		paragraphCount++
		totalChars += utf8.RuneCountInString(b.Text)
	}

	if paragraphCount > 0 {
		avgParagraphLength = totalChars / paragraphCount
	}

	return wordCount, paragraphCount, avgParagraphLength
}

// ErrBlockedPage marks a fetch that returned a bot-protection challenge
// page instead of the article
var ErrBlockedPage = errors.New("challenge page returned")

var cfBlockPattern = config.CompileRegexes()["cfBlock"]

// LooksLikeCFBlock reports whether markup is a Cloudflare challenge page
func LooksLikeCFBlock(html string) bool {
	return cfBlockPattern.MatchString(strings.ToLower(html))
}

// IsCloudflareBlock reports whether err comes from a fetch that was served
// a challenge page
func IsCloudflareBlock(err error) bool {
	if err == nil {
		return false
	}
	var cfErr *models.CloudflareBlockError
	return errors.Is(err, ErrBlockedPage) || errors.As(err, &cfErr)
}
