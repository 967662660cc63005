package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/khobor-corpus/internal/corpus"
	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// buildCorpus writes a small corpus tree and returns its root.
func buildCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	w := corpus.NewWriter(nil)

	articles := []struct {
		site string
		domain.Article
	}{
		{"cbc", domain.Article{Title: "City Council Votes | CBC News", Date: "05-03-2024", Paragraphs: []string{"The council voted on the budget.", "The vote was close."}}},
		{"cbc", domain.Article{Title: "Storm Hits City | CBC News", Date: "06-03-2024", Paragraphs: []string{"A storm hit the city overnight."}}},
		{"the_star", domain.Article{Title: "Council Budget", Date: "5-March-2024", Paragraphs: []string{"The budget passed."}}},
	}
	for _, a := range articles {
		_, err := w.Write(a.Article, filepath.Join(root, a.site))
		require.NoError(t, err)
	}
	return root
}

func syntheticEntries(n int) []domain.ArticleEntry {
	entries := make([]domain.ArticleEntry, n)
	for i := range entries {
		entries[i] = domain.ArticleEntry{Site: "cbc", Date: "05-03-2024", Path: fmt.Sprintf("/corpus/cbc/05-03-2024/story_%d.txt", i)}
	}
	return entries
}

func TestSplitIsDeterministic(t *testing.T) {
	entries := syntheticEntries(10)

	first, err := Split(entries, 0.7)
	require.NoError(t, err)
	second, err := Split(entries, 0.7)
	require.NoError(t, err)

	assert.Len(t, first.Train, 7)
	assert.Len(t, first.Test, 3)
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, entries, append(append([]domain.ArticleEntry{}, first.Train...), first.Test...))

	// the input slice is not reordered
	assert.Equal(t, syntheticEntries(10), entries)
}

func TestSplitRounding(t *testing.T) {
	tests := []struct {
		n        int
		fraction float64
		train    int
	}{
		{10, 0.25, 3},
		{3, 0.5, 2},
		{5, 0, 0},
		{5, 1, 5},
		{0, 0.8, 0},
	}
	for _, tt := range tests {
		ds, err := Split(syntheticEntries(tt.n), tt.fraction)
		require.NoError(t, err)
		assert.Len(t, ds.Train, tt.train, "n=%d fraction=%v", tt.n, tt.fraction)
		assert.Equal(t, tt.n, ds.Len())
	}
}

func TestSplitRejectsBadFraction(t *testing.T) {
	for _, f := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := Split(syntheticEntries(3), f)
		assert.Error(t, err)
	}
}

func TestLoad(t *testing.T) {
	root := buildCorpus(t)

	ds, err := Load(root, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Len(t, ds.Train, 2)

	var dates []string
	for _, e := range append(ds.Train, ds.Test...) {
		dates = append(dates, e.Date)
	}
	assert.ElementsMatch(t, []string{"05-03-2024", "06-03-2024", "5-03-2024"}, dates)

	_, err = Load(filepath.Join(root, "missing"), 0.8)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "panic", "it's", "2024"}, Tokenize("Don't panic, it's 2024!"))
	assert.Equal(t, []string{"quoted"}, Tokenize("'quoted'"))
	assert.Empty(t, Tokenize(" -- "))
}

func TestHeadlineTokens(t *testing.T) {
	assert.Equal(t, []string{"city", "council", "votes"}, HeadlineTokens("/c/cbc/05-03-2024/city_council_votes.txt"))
	assert.Equal(t, []string{"rates", "up", "1", "4", "point"}, HeadlineTokens("rates_up_1_4_point.txt"))
}

func TestBodyTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello World\n\nHello again\n\n"), 0o644))

	tokens, err := BodyTokens(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world", "hello", "again"}, tokens)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = BodyTokens(empty)
	assert.ErrorIs(t, err, ErrEmptyArticle)

	_, err = BodyTokens(filepath.Join(dir, "absent.txt"))
	assert.Error(t, err)
}

func TestIndexerRoundTrip(t *testing.T) {
	ds, err := Load(buildCorpus(t), 1)
	require.NoError(t, err)

	idx, err := NewIndexer(ds.Train)
	require.NoError(t, err)
	assert.Equal(t, 6, idx.Len())
	assert.Equal(t, 0, idx.Index("budget"))
	assert.Equal(t, 5, idx.Index("votes"))
	assert.Equal(t, 7, idx.Index("unseen"))

	deidx := NewDeindexer(idx)
	tokens := []string{"storm", "hits", "city"}
	assert.Equal(t, tokens, deidx.Decode(idx.Encode(tokens)))

	assert.Equal(t, []string{"council", UnknownToken}, deidx.Decode(idx.Encode([]string{"council", "unseen"})))
	assert.Equal(t, UnknownToken, deidx.Token(idx.Len()))
	assert.Equal(t, UnknownToken, deidx.Token(-1))
}

func TestNewIndexerEmpty(t *testing.T) {
	_, err := NewIndexer(nil)
	assert.Error(t, err)
}

func TestHeadlineFrequencies(t *testing.T) {
	ds, err := Load(buildCorpus(t), 1)
	require.NoError(t, err)

	freq := HeadlineFrequencies(ds.Train)
	assert.Equal(t, 3, freq.Documents)
	assert.Equal(t, 2, freq.DF("city"))
	assert.Equal(t, 2, freq.DF("council"))
	assert.Equal(t, 1, freq.DF("storm"))
	assert.Equal(t, 0, freq.DF("unseen"))

	assert.InDelta(t, 0.0, freq.IDF("city"), 1e-9)
	assert.InDelta(t, math.Log(1.5), freq.IDF("storm"), 1e-9)
	assert.InDelta(t, math.Log(3), freq.IDF("unseen"), 1e-9)

	var storm domain.ArticleEntry
	for _, e := range ds.Train {
		if filepath.Base(e.Path) == "storm_hits_city.txt" {
			storm = e
		}
	}
	require.NotEmpty(t, storm.Path)

	scores := freq.HeadlineTFIDF(storm)
	require.Len(t, scores, 3)
	assert.Equal(t, "storm", scores[0].Token)
	assert.InDelta(t, math.Log(1.5)/3, scores[0].Score, 1e-9)
	assert.InDelta(t, 0.0, scores[2].Score, 1e-9)
}

func TestTFIDFRequiresToken(t *testing.T) {
	freq := &DocFrequency{Counts: map[string]int{}, Documents: 2}
	_, err := freq.TFIDF("absent", []string{"a", "b"})
	assert.Error(t, err)

	score, err := freq.TFIDF("a", []string{"a", "a", "b", "c"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5*math.Log(2), score, 1e-9)
}

func TestBodyFrequenciesAndDistribution(t *testing.T) {
	ds, err := Load(buildCorpus(t), 1)
	require.NoError(t, err)

	freq := BodyFrequencies(ds.Train)
	assert.Equal(t, 3, freq.Documents)
	assert.Equal(t, 3, freq.DF("the"))
	assert.Equal(t, 2, freq.DF("budget"))
	assert.Equal(t, 1, freq.DF("storm"))

	buckets := freq.BodyScoreDistribution(ds.Train)
	require.NotEmpty(t, buckets)
	total := 0
	for i, b := range buckets {
		total += b.Count
		if i > 0 {
			assert.Less(t, buckets[i-1].Score, b.Score)
		}
	}
	// distinct tokens per document: 8 + 6 + 3
	assert.Equal(t, 17, total)
}
