package crawler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

// maxNestedSitemaps bounds how many child sitemaps of an index are followed.
const maxNestedSitemaps = 5

// sitemapDoc decodes both <urlset> and <sitemapindex> documents.
type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

func parseSitemap(data []byte) (sitemapDoc, error) {
	var doc sitemapDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return sitemapDoc{}, fmt.Errorf("parse sitemap xml: %w", err)
	}
	return doc, nil
}

// sitemapLinks returns article URLs listed in the site's sitemap whose path contains
// the site's link filter. A sitemap index is followed one level deep.
func (s *Scraper) sitemapLinks(ctx context.Context, site sites.Site) ([]string, error) {
	body, err := s.Fetch(ctx, site.SitemapURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseSitemap(body)
	if err != nil {
		return nil, err
	}

	locs := locsOf(doc.URLs)
	for i, child := range locsOf(doc.Sitemaps) {
		if i == maxNestedSitemaps {
			break
		}
		data, err := s.Fetch(ctx, child)
		if err != nil {
			return nil, err
		}
		nested, err := parseSitemap(data)
		if err != nil {
			return nil, err
		}
		locs = append(locs, locsOf(nested.URLs)...)
	}

	links := make([]string, 0, len(locs))
	for _, loc := range locs {
		u, err := url.Parse(loc)
		if err != nil || !strings.Contains(u.Path, site.LinkPathFilter) {
			continue
		}
		links = append(links, loc)
	}
	return links, nil
}

func locsOf(entries []sitemapLoc) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if loc := strings.TrimSpace(e.Loc); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

// mergeLinks appends extra to links, dropping URLs already present.
func mergeLinks(links, extra []string) []string {
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		seen[l] = struct{}{}
	}
	for _, l := range extra {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		links = append(links, l)
	}
	return links
}
