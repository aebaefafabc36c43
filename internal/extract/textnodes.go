package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textNodes returns the text nodes under sel in document order. Nested
// matches do not produce the same node twice.
func textNodes(sel *goquery.Selection, own bool) []string {
	var out []string
	seen := make(map[*html.Node]struct{})

	add := func(n *html.Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n.Data)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				add(c)
			case html.ElementNode:
				if c.Data == "script" || c.Data == "style" {
					continue
				}
				if !own {
					walk(c)
				}
			}
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// nonBlank drops whitespace-only nodes and trims the rest.
func nonBlank(nodes []string) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := strings.TrimSpace(n); s != "" {
			out = append(out, s)
		}
	}
	return out
}
