package reader

import (
	"strings"

	"golang.org/x/net/html"
)

// IsBoilerplate reports whether n is an element whose subtree never holds
// readable content (scripts, styles and page chrome).
func IsBoilerplate(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return BoilerplateTags[strings.ToLower(n.Data)]
}
