package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-corpus/internal/dataset"
	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

type datasetFlags struct {
	fraction float64
	top      int
	root     string
}

func (c *cli) datasetCmd() *cobra.Command {
	var f datasetFlags
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Summarise the corpus as a seeded train/test split",
		Long: `Dataset scans the corpus tree, shuffles it with a fixed seed and splits it
into train and test sets. It prints per-site counts, the headline vocabulary
size of the train set and, with --top, the highest-scoring headline tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runDataset(f)
		},
	}

	cmd.Flags().Float64Var(&f.fraction, "fraction", 0.8, "share of articles placed in the train set")
	cmd.Flags().IntVar(&f.top, "top", 0, "print the N highest TF-IDF headline tokens of the train set")
	cmd.Flags().StringVarP(&f.root, "root", "o", "", "corpus root directory (default from config)")
	return cmd
}

func (c *cli) runDataset(f datasetFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	root := cfg.Corpus.Root
	if f.root != "" {
		root = f.root
	}

	ds, err := dataset.Load(root, f.fraction)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	fmt.Fprintf(c.out, "articles=%d train=%d test=%d seed=%d\n", ds.Len(), len(ds.Train), len(ds.Test), dataset.ShuffleSeed)
	for _, line := range siteCounts(ds) {
		fmt.Fprintln(c.out, line)
	}
	if len(ds.Train) == 0 {
		return nil
	}

	idx, err := dataset.NewIndexer(ds.Train)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "headline vocabulary=%d\n", idx.Len())

	if f.top > 0 {
		for _, s := range topHeadlineTokens(ds.Train, f.top) {
			fmt.Fprintf(c.out, "  %-24s %.4f\n", s.Token, s.Score)
		}
	}
	return nil
}

func siteCounts(ds *dataset.Dataset) []string {
	type counts struct{ train, test int }
	per := map[string]*counts{}
	get := func(site string) *counts {
		if per[site] == nil {
			per[site] = &counts{}
		}
		return per[site]
	}
	for _, e := range ds.Train {
		get(e.Site).train++
	}
	for _, e := range ds.Test {
		get(e.Site).test++
	}

	names := make([]string, 0, len(per))
	for name := range per {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %-16s train=%d test=%d", name, per[name].train, per[name].test))
	}
	return lines
}

// topHeadlineTokens keeps each token's best score across headlines and returns the n best.
func topHeadlineTokens(entries []domain.ArticleEntry, n int) []dataset.TokenScore {
	freq := dataset.HeadlineFrequencies(entries)
	best := map[string]float64{}
	for _, e := range entries {
		for _, s := range freq.HeadlineTFIDF(e) {
			if cur, ok := best[s.Token]; !ok || s.Score > cur {
				best[s.Token] = s.Score
			}
		}
	}

	out := make([]dataset.TokenScore, 0, len(best))
	for tok, score := range best {
		out = append(out, dataset.TokenScore{Token: tok, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Token < out[j].Token
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
