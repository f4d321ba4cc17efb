package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"reader-helper/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLRenderer produces the reader panel markup: a sidebar carrying the
// open and dark-mode classes around a content area sized by the panel font
type HTMLRenderer struct {
	State  models.PanelState
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates an HTMLRenderer for the given panel state.
func NewHTMLRenderer(state models.PanelState) *HTMLRenderer {
	return &HTMLRenderer{
		State:  state,
		policy: panelPolicy(),
	}
}

// panelPolicy allows only the elements the panel emits
func panelPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "li")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z][a-z -]*$`)).OnElements("div")
	p.AllowStyles("font-size").Matching(regexp.MustCompile(`^\d+px$`)).OnElements("div")
	return p
}

// Render builds the panel and sanitises it.
func (r *HTMLRenderer) Render(result models.ExtractionResult) ([]byte, error) {
	classes := []string{"reader-sidebar"}
	if r.State.Open {
		classes = append(classes, "open")
	}
	if r.State.DarkMode {
		classes = append(classes, "dark-mode")
	}

	fontSize := r.State.FontSizePx
	if fontSize == 0 {
		fontSize = models.DefaultFontSizePx
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s">`, strings.Join(classes, " "))
	fmt.Fprintf(&b, `<div class="reader-content" style="font-size: %dpx">`, fontSize)
	writeContent(&b, result)
	b.WriteString("</div></div>")

	return r.policy.SanitizeBytes([]byte(b.String())), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// writeContent writes the title and blocks as bare elements
func writeContent(b *strings.Builder, result models.ExtractionResult) {
	fmt.Fprintf(b, "<h1>%s</h1>", html.EscapeString(result.Title))

	for _, g := range groupBlocks(result.Blocks) {
		if g.list {
			b.WriteString("<ul>")
			for _, item := range g.blocks {
				fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(item.Text))
			}
			b.WriteString("</ul>")
			continue
		}

		block := g.blocks[0]
		if block.Kind == models.KindHeading {
			level := headingLevel(block)
			fmt.Fprintf(b, "<h%d>%s</h%d>", level, html.EscapeString(block.Text), level)
			continue
		}
		fmt.Fprintf(b, "<p>%s</p>", html.EscapeString(block.Text))
	}
}
