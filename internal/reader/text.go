package reader

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// textLength counts characters, not bytes.
func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

// textStats summarises a node's text content so that the trimmed length of
// any ancestor can be derived without rebuilding the string.
type textStats struct {
	total    int  // runes in the full text content
	leading  int  // whitespace runes before the first non-space rune
	trailing int  // whitespace runes after the last non-space rune
	blank    bool // text content is empty or whitespace only
}

func (s textStats) trimmedLen() int {
	if s.blank {
		return 0
	}
	return s.total - s.leading - s.trailing
}

// concat returns the stats of s's text followed by next's text.
func (s textStats) concat(next textStats) textStats {
	out := textStats{
		total: s.total + next.total,
		blank: s.blank && next.blank,
	}
	if s.blank {
		out.leading = s.total + next.leading
	} else {
		out.leading = s.leading
	}
	if next.blank {
		out.trailing = next.total + s.trailing
	} else {
		out.trailing = next.trailing
	}
	return out
}

func statsOfString(s string) textStats {
	st := textStats{blank: true}
	for _, r := range s {
		st.total++
		if unicode.IsSpace(r) {
			if st.blank {
				st.leading++
			}
			st.trailing++
			continue
		}
		st.blank = false
		st.trailing = 0
	}
	if st.blank {
		st.leading = st.total
		st.trailing = st.total
	}
	return st
}

// textIndex memoises text stats per node for the duration of one search.
type textIndex map[*html.Node]textStats

func (idx textIndex) stats(n *html.Node) textStats {
	if st, ok := idx[n]; ok {
		return st
	}
	var st textStats
	if n.Type == html.TextNode {
		st = statsOfString(n.Data)
	} else {
		st = textStats{blank: true}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			st = st.concat(idx.stats(c))
		}
	}
	idx[n] = st
	return st
}

func (idx textIndex) trimmedLen(n *html.Node) int {
	return idx.stats(n).trimmedLen()
}
