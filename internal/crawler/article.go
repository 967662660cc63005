package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

// ParseArticle builds an Article from raw HTML. Title, date and body are extracted in that
// order and the first failure aborts; no partial article is returned.
func (s *Scraper) ParseArticle(body []byte, url string, site sites.Site, sel sites.Selectors) (domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.Article{}, fmt.Errorf("parse html: %w", err)
	}

	title, err := extractTitle(doc)
	if err != nil {
		return domain.Article{}, err
	}

	date, err := s.dates.ExtractDate(doc)
	if err != nil {
		return domain.Article{}, err
	}

	paragraphs, err := ExtractParagraphs(doc, sel.Body, sel.Paragraph)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		Site:       site.Name,
		URL:        url,
		Title:      title,
		Paragraphs: paragraphs,
		Date:       date,
	}, nil
}

// extractTitle returns the trimmed first text of the page <title>.
func extractTitle(doc *goquery.Document) (string, error) {
	text, ok := firstText(doc.Find("title").First())
	if !ok {
		return "", domain.ErrTitleNotFound
	}
	title := strings.TrimSpace(text)
	if title == "" {
		return "", domain.ErrTitleNotFound
	}
	return title, nil
}
