package crawler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// DateStrategy pulls a raw D-M-YYYY style date out of one markup convention.
// Extract reports false when its target element is missing or unparseable.
type DateStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) (string, bool)
}

var (
	timestampSel      = cascadia.MustCompile("time.timeStamp")
	publishedLabelSel = cascadia.MustCompile("span.published-date__since")
	bylineDateSel     = cascadia.MustCompile("span.article__published-date")

	isoDateRe        = regexp.MustCompile(`(?P<y>\d{4})-(?P<m>\d{2})-(?P<d>\d{2})`)
	publishedLabelRe = regexp.MustCompile(`Published (?P<m>[A-Za-z]{3}) (?P<d>\d\d?), (?P<y>\d{4})`)
	bylineDateRe     = regexp.MustCompile(`...\., (?P<m>[A-Za-z]+) (?P<d>\d\d?), (?P<y>\d{4})`)
)

// DefaultDateStrategies is the fixed precedence order used for every site.
func DefaultDateStrategies() []DateStrategy {
	return []DateStrategy{
		{Name: "timestamp", Extract: dateFromTimestamp},
		{Name: "published_label", Extract: dateFromPublishedLabel},
		{Name: "byline", Extract: dateFromByline},
	}
}

// dateFromTimestamp reads <time class="timeStamp" datetime="YYYY-MM-DD...">.
func dateFromTimestamp(doc *goquery.Document) (string, bool) {
	node := doc.FindMatcher(timestampSel).First()
	if node.Length() == 0 {
		return "", false
	}
	raw, ok := node.Attr("datetime")
	if !ok {
		return "", false
	}
	return rewriteDMY(isoDateRe, raw)
}

// dateFromPublishedLabel reads "Published Mar 5, 2024". The month abbreviation "Mar" becomes
// the bare numeral 3, other abbreviations are left as text.
func dateFromPublishedLabel(doc *goquery.Document) (string, bool) {
	text, ok := firstText(doc.FindMatcher(publishedLabelSel).First())
	if !ok {
		return "", false
	}
	raw, ok := rewriteDMY(publishedLabelRe, text)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(raw, "Mar", "3"), true
}

// dateFromByline reads "Tue., March 5, 2024".
func dateFromByline(doc *goquery.Document) (string, bool) {
	text, ok := firstText(doc.FindMatcher(bylineDateSel).First())
	if !ok {
		return "", false
	}
	return rewriteDMY(bylineDateRe, text)
}

// rewriteDMY rearranges the d, m and y groups of the first match as d-m-y.
func rewriteDMY(re *regexp.Regexp, text string) (string, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	group := func(name string) string { return match[re.SubexpIndex(name)] }
	return group("d") + "-" + group("m") + "-" + group("y"), true
}

// DateExtractor runs its strategies in order until one yields a date.
type DateExtractor struct {
	strategies []DateStrategy
	legacy     bool
}

// NewDateExtractor builds an extractor. With no strategies the defaults are used.
// When legacy is set, raw strategy output is returned without canonicalization.
func NewDateExtractor(legacy bool, strategies ...DateStrategy) *DateExtractor {
	if len(strategies) == 0 {
		strategies = DefaultDateStrategies()
	}
	return &DateExtractor{strategies: strategies, legacy: legacy}
}

// ExtractDate returns the canonical DD-MM-YYYY date of doc, or domain.ErrDateNotFound.
func (e *DateExtractor) ExtractDate(doc *goquery.Document) (string, error) {
	var rejected []string
	for _, s := range e.strategies {
		raw, ok := s.Extract(doc)
		if !ok {
			continue
		}
		if e.legacy {
			return raw, nil
		}
		date, err := CanonicalDate(raw)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("%s: %v", s.Name, err))
			continue
		}
		return date, nil
	}

	if len(rejected) > 0 {
		return "", fmt.Errorf("%w (%s)", domain.ErrDateNotFound, strings.Join(rejected, "; "))
	}
	return "", domain.ErrDateNotFound
}

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// CanonicalDate turns "D-M-YYYY", where M is a number, a month name or its abbreviation,
// into zero-padded DD-MM-YYYY. Impossible calendar dates are rejected.
func CanonicalDate(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("date %q is not day-month-year", raw)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("date %q: bad day: %w", raw, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		var ok bool
		if month, ok = monthNumbers[strings.ToLower(parts[1])]; !ok {
			return "", fmt.Errorf("date %q: unknown month %q", raw, parts[1])
		}
	}

	if len(parts[2]) != 4 {
		return "", fmt.Errorf("date %q: year must have four digits", raw)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("date %q: bad year: %w", raw, err)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return "", fmt.Errorf("date %q is not a calendar date", raw)
	}
	return t.Format("02-01-2006"), nil
}
