package dataset

import (
	"errors"
	"sort"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// UnknownToken is what a Deindexer returns for indices it never assigned.
const UnknownToken = "UNK"

// Indexer maps headline tokens to dense integer ids.
type Indexer struct {
	index map[string]int
}

// NewIndexer builds a vocabulary from the headline tokens of entries. Tokens are numbered
// from 0 in sorted order.
func NewIndexer(entries []domain.ArticleEntry) (*Indexer, error) {
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, tok := range HeadlineTokens(e.Path) {
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, errors.New("no headline tokens to index")
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	idx := &Indexer{index: make(map[string]int, len(tokens))}
	for i, tok := range tokens {
		idx.index[tok] = i
	}
	return idx, nil
}

// Len is the vocabulary size.
func (x *Indexer) Len() int { return len(x.index) }

// Index returns the id of token, or Len()+1 when the token is unknown.
func (x *Indexer) Index(token string) int {
	if i, ok := x.index[token]; ok {
		return i
	}
	return len(x.index) + 1
}

// Encode maps every token to its id.
func (x *Indexer) Encode(tokens []string) []int {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		out[i] = x.Index(tok)
	}
	return out
}

// Deindexer is the inverse of an Indexer.
type Deindexer struct {
	tokens map[int]string
}

// NewDeindexer inverts idx.
func NewDeindexer(idx *Indexer) *Deindexer {
	d := &Deindexer{tokens: make(map[int]string, len(idx.index))}
	for tok, i := range idx.index {
		d.tokens[i] = tok
	}
	return d
}

// Token returns the token for id, or UnknownToken.
func (d *Deindexer) Token(id int) string {
	if tok, ok := d.tokens[id]; ok {
		return tok
	}
	return UnknownToken
}

// Decode maps every id back to its token.
func (d *Deindexer) Decode(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.Token(id)
	}
	return out
}
