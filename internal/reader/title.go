package reader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveTitle picks the first <h1> in the document, then the document's
// <title>, then fallback.
func ResolveTitle(doc *goquery.Document, fallback string) string {
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}

	// Like document.title, collapse internal whitespace runs.
	if title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " "); title != "" {
		return title
	}

	return fallback
}
