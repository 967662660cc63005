package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// boilerplateMarker is injected by some sites into every paragraph block.
const boilerplateMarker = "Article content"

// ExtractParagraphs collects the paragraph texts inside the first body match, in document order.
func ExtractParagraphs(doc *goquery.Document, body, paragraph goquery.Matcher) ([]string, error) {
	container := doc.FindMatcher(body).First()
	if container.Length() == 0 {
		return nil, domain.ErrBodyNotFound
	}

	var paragraphs []string
	container.FindMatcher(paragraph).Each(func(_ int, p *goquery.Selection) {
		if text, ok := paragraphText(p); ok {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs, nil
}

// paragraphText prefers the newline-joined text of multi-node paragraphs and falls back to the
// inner markup for everything else.
func paragraphText(p *goquery.Selection) (string, bool) {
	if nodes := textNodes(p); len(nodes) > 1 {
		if text := cleanParagraph(strings.Join(nodes, "\n")); strings.TrimSpace(text) != "" {
			return text, true
		}
	}

	inner, err := p.Html()
	if err != nil {
		return "", false
	}
	if text := cleanParagraph(inner); strings.TrimSpace(text) != "" {
		return text, true
	}
	return "", false
}

func cleanParagraph(s string) string {
	s = strings.ReplaceAll(s, boilerplateMarker, "")
	return strings.ReplaceAll(s, "\n ", "")
}
