package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Adda-Baaj/khobor-corpus/internal/corpus"
	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// ShuffleSeed fixes the order of every split so train and test sets are reproducible.
const ShuffleSeed = 12345

// Dataset is a train/test partition of the article files in a corpus tree.
type Dataset struct {
	Train []domain.ArticleEntry
	Test  []domain.ArticleEntry
}

// Len returns the number of entries across both sets.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Train) + len(d.Test)
}

// Load scans root and splits its articles, putting round(n*trainFraction) in Train.
func Load(root string, trainFraction float64) (*Dataset, error) {
	entries, err := corpus.Scan(root)
	if err != nil {
		return nil, err
	}
	return Split(entries, trainFraction)
}

// Split shuffles a copy of entries with ShuffleSeed and partitions it.
func Split(entries []domain.ArticleEntry, trainFraction float64) (*Dataset, error) {
	if math.IsNaN(trainFraction) || trainFraction < 0 || trainFraction > 1 {
		return nil, fmt.Errorf("train fraction %v must be within [0, 1]", trainFraction)
	}

	shuffled := append([]domain.ArticleEntry(nil), entries...)
	rng := rand.New(rand.NewPCG(ShuffleSeed, ShuffleSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTrain := int(math.Round(float64(len(shuffled)) * trainFraction))
	return &Dataset{
		Train: shuffled[:nTrain:nTrain],
		Test:  shuffled[nTrain:],
	}, nil
}
