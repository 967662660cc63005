package crawler

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textNodes returns every descendant text node of the first element in sel, in document order.
// Whitespace-only nodes are kept so that line structure matches the markup.
func textNodes(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}

	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(sel.Get(0))
	return out
}

// firstText returns the first descendant text node of the first element in sel.
func firstText(sel *goquery.Selection) (string, bool) {
	nodes := textNodes(sel)
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[0], true
}
