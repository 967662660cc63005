package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// DocFrequency counts, per token, how many documents of a set contain it.
type DocFrequency struct {
	Counts    map[string]int
	Documents int
}

func newDocFrequency(n int) *DocFrequency {
	return &DocFrequency{Counts: make(map[string]int), Documents: n}
}

func (f *DocFrequency) add(tokens []string) {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		f.Counts[tok]++
	}
}

// HeadlineFrequencies counts headline tokens across entries.
func HeadlineFrequencies(entries []domain.ArticleEntry) *DocFrequency {
	f := newDocFrequency(len(entries))
	for _, e := range entries {
		f.add(HeadlineTokens(e.Path))
	}
	return f
}

// BodyFrequencies counts article body tokens across entries. Unreadable or empty files
// contribute nothing but still count towards Documents.
func BodyFrequencies(entries []domain.ArticleEntry) *DocFrequency {
	f := newDocFrequency(len(entries))
	for _, e := range entries {
		tokens, err := BodyTokens(e.Path)
		if err != nil {
			continue
		}
		f.add(tokens)
	}
	return f
}

// DF returns the document frequency of token.
func (f *DocFrequency) DF(token string) int { return f.Counts[token] }

// IDF returns ln(n / (1 + df)).
func (f *DocFrequency) IDF(token string) float64 {
	return math.Log(float64(f.Documents) / (1 + float64(f.DF(token))))
}

// TFIDF scores token within doc. The token must occur in doc.
func (f *DocFrequency) TFIDF(token string, doc []string) (float64, error) {
	count := 0
	for _, t := range doc {
		if t == token {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("token %q does not occur in document", token)
	}
	return float64(count) / float64(len(doc)) * f.IDF(token), nil
}

// TokenScore is one token of a document with its TF-IDF weight.
type TokenScore struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// HeadlineTFIDF scores every headline token of entry, in headline order.
func (f *DocFrequency) HeadlineTFIDF(entry domain.ArticleEntry) []TokenScore {
	tokens := HeadlineTokens(entry.Path)
	out := make([]TokenScore, 0, len(tokens))
	for _, tok := range tokens {
		// tok comes from tokens, so TFIDF cannot fail here
		score, _ := f.TFIDF(tok, tokens)
		out = append(out, TokenScore{Token: tok, Score: score})
	}
	return out
}

// Bucket is one bin of a score histogram. Score is the TF-IDF weight times 100, truncated.
type Bucket struct {
	Score int64 `json:"score"`
	Count int   `json:"count"`
}

// BodyScoreDistribution bins the TF-IDF of every distinct token of every readable article
// body. Buckets are sorted by score.
func (f *DocFrequency) BodyScoreDistribution(entries []domain.ArticleEntry) []Bucket {
	counts := make(map[int64]int)
	for _, e := range entries {
		tokens, err := BodyTokens(e.Path)
		if err != nil {
			continue
		}
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			score, _ := f.TFIDF(tok, tokens)
			counts[int64(score*100)]++
		}
	}

	out := make([]Bucket, 0, len(counts))
	for score, n := range counts {
		out = append(out, Bucket{Score: score, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}
