package crawler

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

// Discover fetches the site's listing page and returns absolute links to candidate articles,
// in document order. A listing without matching anchors yields an empty slice and no error.
// When the site names a sitemap, its matching entries are appended after the listing links.
func (s *Scraper) Discover(ctx context.Context, site sites.Site) ([]string, error) {
	sel, err := site.Selectors()
	if err != nil {
		return nil, err
	}
	return s.discover(ctx, site, sel)
}

func (s *Scraper) discover(ctx context.Context, site sites.Site, sel sites.Selectors) ([]string, error) {
	body, err := s.Fetch(ctx, site.ListingURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	links := extractLinks(doc, sel.Link, site.LinkPathFilter, site.LinkPrefix)
	if site.SitemapURL == "" {
		return links, nil
	}

	extra, err := s.sitemapLinks(ctx, site)
	if err != nil {
		s.log.WarnObj("sitemap discovery failed", "sitemap_failed", map[string]any{
			"site":        site.Name,
			"sitemap_url": site.SitemapURL,
			"kind":        domain.ErrorKind(err),
			"error":       err.Error(),
		})
		return links, nil
	}
	return mergeLinks(links, extra), nil
}

// extractLinks keeps hrefs containing filter and prefixes them with https://{prefix}.
func extractLinks(doc *goquery.Document, link goquery.Matcher, filter, prefix string) []string {
	links := []string{}
	doc.FindMatcher(link).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, filter) {
			return
		}
		links = append(links, "https://"+prefix+href)
	})
	return links
}
