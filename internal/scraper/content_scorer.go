package scraper

import (
	"strings"
	"unicode/utf8"

	"reader-helper/internal/models"
)

// ScoreContentQuality analyzes an extraction result against the page it
// came from and returns quality metrics
func ScoreContentQuality(result models.ExtractionResult, originalHTML string) models.ContentQuality {
	if len(result.Blocks) == 0 {
		return models.ContentQuality{Score: 0}
	}

	wordCount, paragraphCount, avgParagraphLength := CalculateContentMetrics(result.Blocks)

	hasHeaders := false
	var text strings.Builder
	for _, b := range result.Blocks {
		if b.Kind == models.KindHeading {
			hasHeaders = true
		}
		text.WriteString(b.Text)
		text.WriteByte('\n')
	}
	content := text.String()

	textToHTMLRatio := 0.0
	if len(originalHTML) > 0 {
		textToHTMLRatio = float64(len(content)) / float64(len(originalHTML))
	}

	// Rough link estimation from URLs left in the text
	linkCount := strings.Count(content, "http") + strings.Count(content, "www.")
	charCount := utf8.RuneCountInString(content)
	linkDensity := 0.0
	if charCount > 0 {
		linkDensity = float64(linkCount) / float64(charCount) * 1000
	}

	score := calculateOverallScore(wordCount, paragraphCount, avgParagraphLength,
		hasHeaders, textToHTMLRatio, linkDensity)

	return models.ContentQuality{
		Score:              score,
		TextToHTMLRatio:    textToHTMLRatio,
		BlockCount:         len(result.Blocks),
		ParagraphCount:     paragraphCount,
		AvgParagraphLength: avgParagraphLength,
		HasHeaders:         hasHeaders,
		LinkDensity:        linkDensity,
		WordCount:          wordCount,
	}
}

// calculateOverallScore computes a 0-100 quality score
func calculateOverallScore(wordCount, paragraphCount, avgParagraphLength int,
	hasHeaders bool, textToHTMLRatio, linkDensity float64) int {

	score := 0

	// Word count scoring (0-25 points)
	switch {
	case wordCount >= 500:
		score += 25
	case wordCount >= 200:
		score += 20
	case wordCount >= 100:
		score += 15
	case wordCount >= 50:
		score += 10
	}

	// Paragraph count scoring (0-20 points)
	switch {
	case paragraphCount >= 5:
		score += 20
	case paragraphCount >= 3:
		score += 15
	case paragraphCount >= 2:
		score += 10
	case paragraphCount >= 1:
		score += 5
	}

	// Average paragraph length scoring (0-20 points)
	switch {
	case avgParagraphLength >= 200:
		score += 20
	case avgParagraphLength >= 100:
		score += 15
	case avgParagraphLength >= 50:
		score += 10
	case avgParagraphLength >= 20:
		score += 5
	}

	// Structure scoring (0-15 points)
	if hasHeaders {
		score += 15
	}

	// Text-to-HTML ratio scoring (0-10 points)
	switch {
	case textToHTMLRatio >= 0.3:
		score += 10
	case textToHTMLRatio >= 0.2:
		score += 7
	case textToHTMLRatio >= 0.1:
		score += 5
	}

	// Link density penalty
	switch {
	case linkDensity <= 5:
		score += 10
	case linkDensity <= 10:
		score += 5
	case linkDensity > 20:
		score -= 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return score
}
