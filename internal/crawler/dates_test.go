package crawler

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestExtractDateStrategies(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		legacy string
	}{
		{
			name:   "timestamp",
			markup: `<time class="timeStamp" datetime="2024-03-05T10:00:00Z">March 5</time>`,
			want:   "05-03-2024",
			legacy: "05-03-2024",
		},
		{
			name:   "published label march",
			markup: `<span class="published-date__since">Published Mar 5, 2024</span>`,
			want:   "05-03-2024",
			legacy: "5-3-2024",
		},
		{
			name:   "published label other month",
			markup: `<span class="published-date__since">Published Feb 15, 2024 • Last updated 2 days ago</span>`,
			want:   "15-02-2024",
			legacy: "15-Feb-2024",
		},
		{
			name:   "byline",
			markup: `<span class="article__published-date">Tue., March 5, 2024</span>`,
			want:   "05-03-2024",
			legacy: "5-March-2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<html><body>"+tt.markup+"</body></html>")

			got, err := NewDateExtractor(false).ExtractDate(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 10)

			raw, err := NewDateExtractor(true).ExtractDate(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.legacy, raw)
		})
	}
}

func TestExtractDatePrecedence(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<span class="article__published-date">Tue., March 5, 2024</span>
		<span class="published-date__since">Published Feb 15, 2024</span>
		<time class="timeStamp" datetime="2024-01-02T08:00:00Z"></time>
	</body></html>`)

	got, err := NewDateExtractor(false).ExtractDate(doc)
	require.NoError(t, err)
	assert.Equal(t, "02-01-2024", got)
}

func TestExtractDateNotFound(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>No date anywhere</p><time datetime="2024-01-02"></time></body></html>`)

	_, err := NewDateExtractor(false).ExtractDate(doc)
	assert.ErrorIs(t, err, domain.ErrDateNotFound)
	assert.Equal(t, domain.KindDateNotFound, domain.ErrorKind(err))
}

func TestExtractDateUnparseableTextFallsThrough(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<time class="timeStamp">no datetime attribute</time>
		<span class="published-date__since">Updated yesterday</span>
		<span class="article__published-date">Tue., March 5, 2024</span>
	</body></html>`)

	got, err := NewDateExtractor(false).ExtractDate(doc)
	require.NoError(t, err)
	assert.Equal(t, "05-03-2024", got)
}

func TestExtractDateRejectsImpossibleDate(t *testing.T) {
	doc := mustDoc(t, `<html><body><time class="timeStamp" datetime="2024-13-45"></time></body></html>`)

	_, err := NewDateExtractor(false).ExtractDate(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDateNotFound))
	assert.Contains(t, err.Error(), "timestamp")

	// legacy output passes raw strategy text through untouched
	raw, err := NewDateExtractor(true).ExtractDate(doc)
	require.NoError(t, err)
	assert.Equal(t, "45-13-2024", raw)
}

func TestExtractDateCustomStrategies(t *testing.T) {
	fixed := DateStrategy{
		Name:    "fixed",
		Extract: func(*goquery.Document) (string, bool) { return "1-jan-1999", true },
	}

	got, err := NewDateExtractor(false, fixed).ExtractDate(mustDoc(t, "<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "01-01-1999", got)
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "5-3-2024", want: "05-03-2024"},
		{raw: "05-03-2024", want: "05-03-2024"},
		{raw: "5-Mar-2024", want: "05-03-2024"},
		{raw: "5-March-2024", want: "05-03-2024"},
		{raw: "30-Sept-2023", want: "30-09-2023"},
		{raw: "29-2-2024", want: "29-02-2024"},
		{raw: "29-2-2023", wantErr: true},
		{raw: "5-Smarch-2024", wantErr: true},
		{raw: "5-3-24", wantErr: true},
		{raw: "x-3-2024", wantErr: true},
		{raw: "2024-03-05T10", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := CanonicalDate(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
