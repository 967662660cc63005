package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-corpus/internal/config"
	"github.com/Adda-Baaj/khobor-corpus/internal/corpus"
	"github.com/Adda-Baaj/khobor-corpus/internal/crawler"
	"github.com/Adda-Baaj/khobor-corpus/internal/ledger"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
	"github.com/Adda-Baaj/khobor-corpus/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-corpus/pkg/publishers"
)

type scrapeFlags struct {
	workers    int
	failOnSkip bool
	root       string
}

func (c *cli) scrapeCmd() *cobra.Command {
	var f scrapeFlags
	cmd := &cobra.Command{
		Use:   "scrape [site...]",
		Short: "Run discovery and extraction for all or the named sites",
		Long: `Scrape fetches each site's listing page, follows every article link that
passes the site's path filter and writes the extracted text into the corpus.
Articles that cannot be fetched or parsed are skipped and logged. A site whose
listing cannot be fetched fails; the remaining sites still run.

Exit status is 0 when every site ran, 1 when any site failed discovery, and 2
when --fail-on-skip is set and at least one article was skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScrape(cmd, args, f)
		},
	}

	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "articles processed concurrently per site (default from config)")
	cmd.Flags().BoolVar(&f.failOnSkip, "fail-on-skip", false, "exit with status 2 when any article was skipped")
	cmd.Flags().StringVarP(&f.root, "root", "o", "", "corpus root directory (default from config)")
	return cmd
}

func (c *cli) runScrape(cmd *cobra.Command, args []string, f scrapeFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.Scrape.Workers = f.workers
	}
	if f.root != "" {
		cfg.Corpus.Root = f.root
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	reg, err := loadSites(cfg)
	if err != nil {
		return err
	}
	targets, err := reg.Select(args)
	if err != nil {
		return err
	}

	runs, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer runs.Close()

	ctx := cmd.Context()
	dispatcher, err := buildDispatcher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = dispatcher.Close(closeCtx)
	}()

	scraper := c.newScraper(cfg, log, dispatcher)

	var failedSites, skipped int
	for _, site := range targets {
		if ctx.Err() != nil {
			break
		}

		report, runErr := scraper.Run(ctx, site)
		if err := runs.Record(report); err != nil {
			log.WarnObj("cannot record run", "ledger_record_failed", map[string]any{
				"site":  site.Name,
				"error": err.Error(),
			})
		}

		if runErr != nil {
			failedSites++
			fmt.Fprintf(c.out, "%-16s FAILED   %v\n", site.Name, runErr)
			continue
		}
		skipped += report.Skipped
		fmt.Fprintf(c.out, "%-16s written=%d skipped=%d discovered=%d run=%s\n",
			site.Name, report.Written, report.Skipped, report.Discovered, report.RunID)
	}

	switch {
	case ctx.Err() != nil:
		return &exitError{code: exitFailure, err: fmt.Errorf("scrape interrupted: %w", ctx.Err())}
	case failedSites > 0:
		return &exitError{code: exitFailure, err: fmt.Errorf("%d of %d sites failed discovery", failedSites, len(targets))}
	case f.failOnSkip && skipped > 0:
		return &exitError{code: exitSkipped, err: fmt.Errorf("%d articles skipped", skipped)}
	}
	return nil
}

func (c *cli) newScraper(cfg *config.Config, log logger.Logger, dispatcher *publishers.Dispatcher) *crawler.Scraper {
	client := c.client
	if client == nil {
		client = httpclient.NewRestyClient(cfg.HTTPTimeout())
	}

	opts := []crawler.Option{
		crawler.WithWorkers(cfg.Scrape.Workers),
		crawler.WithDateExtractor(crawler.NewDateExtractor(cfg.Scrape.LegacyDates)),
		crawler.WithUserAgent(cfg.HTTP.UserAgent),
	}
	if dispatcher.Len() > 0 {
		opts = append(opts, crawler.WithPersistHook(dispatcher.PublishArticle))
	}

	return crawler.NewScraper(client, corpus.NewWriter(cfg.Corpus.TitleSuffixes), cfg.Corpus.Root, log, opts...)
}

// buildDispatcher wires the publishers file, if any, into an event dispatcher.
func buildDispatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Dispatcher, error) {
	if cfg.Publishers.File == "" {
		return publishers.NewDispatcher(nil, log), nil
	}
	reg, err := publishers.LoadRegistry(cfg.Publishers.File)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	return publishers.DefaultFactory().BuildDispatcher(ctx, reg, log)
}
