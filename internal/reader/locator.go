package reader

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// LocateRoot returns the element most likely to hold the page's main
// content. It never returns an empty selection: when neither a content
// selector nor the text-density fallback finds anything, the whole
// document is the root.
func LocateRoot(doc *goquery.Document) *goquery.Selection {
	root, _ := locateRoot(doc)
	return root
}

func locateRoot(doc *goquery.Document) (*goquery.Selection, string) {
	for _, selector := range ContentSelectors {
		if match := doc.Find(selector).First(); match.Length() > 0 {
			return match, StrategySelector + ":" + selector
		}
	}

	search := doc.Selection
	if body := doc.Find("body").First(); body.Length() > 0 {
		search = body
	}
	if len(search.Nodes) > 0 {
		if n := FindLargestTextBlock(search.Nodes[0]); n != nil {
			return search.FindNodes(n), StrategyLargest
		}
	}

	return doc.Selection, StrategyDocument
}

// FindLargestTextBlock walks the element descendants of root in document
// order, skipping boilerplate subtrees entirely, and returns the element
// with the longest trimmed text. Ties keep the earlier element, so when
// every visited element is empty the first one wins. It returns nil only
// when no element was visited.
func FindLargestTextBlock(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}

	idx := textIndex{}
	var (
		largest *html.Node
		maxLen  = -1
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || IsBoilerplate(c) {
				continue
			}
			if l := idx.trimmedLen(c); l > maxLen {
				maxLen = l
				largest = c
			}
			walk(c)
		}
	}
	walk(root)

	return largest
}
