package sites

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// Site describes one news source purely through its markup conventions.
// Sites never carry behaviour; adding a source is adding a row.
type Site struct {
	// Name is also the corpus subdirectory.
	Name              string `json:"name" yaml:"name"`
	ListingURL        string `json:"listing_url" yaml:"listing_url"`
	LinkSelector      string `json:"link_selector" yaml:"link_selector"`
	LinkPathFilter    string `json:"link_path_filter" yaml:"link_path_filter"`
	LinkPrefix        string `json:"link_prefix" yaml:"link_prefix"`
	BodySelector      string `json:"body_selector" yaml:"body_selector"`
	ParagraphSelector string `json:"paragraph_selector" yaml:"paragraph_selector"`
	// SitemapURL optionally adds sitemap entries to discovery.
	SitemapURL string `json:"sitemap_url,omitempty" yaml:"sitemap_url,omitempty"`
}

// Selectors holds the compiled selectors of a Site.
type Selectors struct {
	Link      cascadia.Selector
	Body      cascadia.Selector
	Paragraph cascadia.Selector
}

// Selectors compiles the site's selector fields. Failures are *domain.MarkupError.
func (s Site) Selectors() (Selectors, error) {
	link, err := compile(s.Name, "link_selector", s.LinkSelector)
	if err != nil {
		return Selectors{}, err
	}
	body, err := compile(s.Name, "body_selector", s.BodySelector)
	if err != nil {
		return Selectors{}, err
	}
	par, err := compile(s.Name, "paragraph_selector", s.ParagraphSelector)
	if err != nil {
		return Selectors{}, err
	}
	return Selectors{Link: link, Body: body, Paragraph: par}, nil
}

func compile(site, field, sel string) (cascadia.Selector, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, &domain.MarkupError{Site: site, Field: field, Selector: sel, Err: errors.New("selector is empty")}
	}
	compiled, err := cascadia.Compile(sel)
	if err != nil {
		return nil, &domain.MarkupError{Site: site, Field: field, Selector: sel, Err: err}
	}
	return compiled, nil
}

// Validate checks that every field is set and that all selectors compile.
func (s Site) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", s.Name},
		{"listing_url", s.ListingURL},
		{"link_path_filter", s.LinkPathFilter},
		{"link_prefix", s.LinkPrefix},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required for site %q", r.field, s.Name)
		}
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("site name %q must not contain path separators", s.Name)
	}

	_, err := s.Selectors()
	return err
}

// sanitize trims surrounding whitespace from every field.
func sanitize(s Site) Site {
	s.Name = strings.TrimSpace(s.Name)
	s.ListingURL = strings.TrimSpace(s.ListingURL)
	s.LinkSelector = strings.TrimSpace(s.LinkSelector)
	s.LinkPathFilter = strings.TrimSpace(s.LinkPathFilter)
	s.LinkPrefix = strings.TrimSpace(s.LinkPrefix)
	s.BodySelector = strings.TrimSpace(s.BodySelector)
	s.ParagraphSelector = strings.TrimSpace(s.ParagraphSelector)
	s.SitemapURL = strings.TrimSpace(s.SitemapURL)
	return s
}
