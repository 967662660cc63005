package crawler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/khobor-corpus/internal/corpus"
	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
	"github.com/Adda-Baaj/khobor-corpus/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	defaultUserAgent   = "khobor-corpus/1.0 (news corpus harvester)"
	maxArticleWorkers  = 32
)

// ArticleWriter persists an article under siteRoot and returns the written path.
type ArticleWriter interface {
	Write(article domain.Article, siteRoot string) (string, error)
}

// PersistHook runs after an article has been written. It must not fail the article.
type PersistHook func(ctx context.Context, runID string, article domain.Article, path string)

// Scraper drives site runs: discovery, then fetch, parse and write per link.
type Scraper struct {
	client    httpclient.Client
	log       logger.Logger
	dates     *DateExtractor
	writer    ArticleWriter
	root      string
	workers   int
	headers   map[string]string
	onPersist PersistHook
	newRunID  func() string
	now       func() time.Time
}

// Option customises a Scraper.
type Option func(*Scraper)

// WithWorkers sets how many links are processed at once. Values below 2 keep runs sequential.
func WithWorkers(n int) Option {
	return func(s *Scraper) {
		s.workers = min(max(n, 1), maxArticleWorkers)
	}
}

// WithDateExtractor replaces the default date strategy chain.
func WithDateExtractor(d *DateExtractor) Option {
	return func(s *Scraper) {
		if d != nil {
			s.dates = d
		}
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.headers = map[string]string{"User-Agent": ua}
		}
	}
}

// WithPersistHook registers a callback for every written article.
func WithPersistHook(h PersistHook) Option {
	return func(s *Scraper) { s.onPersist = h }
}

// NewScraper creates a Scraper that writes under root/{site}.
func NewScraper(client httpclient.Client, writer ArticleWriter, root string, log logger.Logger, opts ...Option) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(defaultHTTPTimeout)
	}
	if writer == nil {
		writer = corpus.NewWriter(nil)
	}

	s := &Scraper{
		client:   client,
		log:      logger.Ensure(log),
		dates:    NewDateExtractor(false),
		writer:   writer,
		root:     root,
		workers:  1,
		headers:  map[string]string{"User-Agent": defaultUserAgent},
		newRunID: func() string { return uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes one site end to end. A discovery failure aborts the run and is returned;
// per-article failures are logged and recorded as skipped outcomes.
func (s *Scraper) Run(ctx context.Context, site sites.Site) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     s.newRunID(),
		Site:      site.Name,
		StartedAt: s.now(),
	}

	s.log.InfoObj("discovering article links", "discovery_start", map[string]any{
		"run_id":      report.RunID,
		"site":        site.Name,
		"listing_url": site.ListingURL,
	})

	sel, err := site.Selectors()
	var links []string
	if err == nil {
		links, err = s.discover(ctx, site, sel)
	}
	if err != nil {
		report.Failed = err.Error()
		report.FinishedAt = s.now()
		s.log.ErrorObj("link discovery failed", "discovery_failed", map[string]any{
			"run_id":      report.RunID,
			"site":        site.Name,
			"listing_url": site.ListingURL,
			"kind":        domain.ErrorKind(err),
			"error":       err.Error(),
		})
		return report, fmt.Errorf("discover %s: %w", site.Name, err)
	}

	report.Discovered = len(links)
	s.log.InfoObj("article links discovered", "discovery_done", map[string]any{
		"run_id": report.RunID,
		"site":   site.Name,
		"links":  len(links),
	})

	report.Outcomes = s.processAll(ctx, site, sel, links, report.RunID)
	for _, o := range report.Outcomes {
		if o.Status == domain.StatusWritten {
			report.Written++
		} else {
			report.Skipped++
		}
	}
	report.FinishedAt = s.now()

	s.log.InfoObj("site run finished", "run_done", map[string]any{
		"run_id":     report.RunID,
		"site":       site.Name,
		"discovered": report.Discovered,
		"written":    report.Written,
		"skipped":    report.Skipped,
		"elapsed":    report.FinishedAt.Sub(report.StartedAt).String(),
	})
	return report, nil
}

// processAll handles every link and returns outcomes in discovery order.
func (s *Scraper) processAll(ctx context.Context, site sites.Site, sel sites.Selectors, links []string, runID string) []domain.LinkOutcome {
	out := make([]domain.LinkOutcome, len(links))
	if len(links) == 0 {
		return out
	}

	if s.workers <= 1 {
		for idx, link := range links {
			if ctx.Err() != nil {
				break
			}
			out[idx] = s.processLink(ctx, site, sel, link, runID, 0)
		}
	} else {
		workerCount := min(len(links), s.workers)
		jobCh := make(chan int)
		var wg sync.WaitGroup

		for workerID := range workerCount {
			wg.Add(1)
			go s.articleWorker(ctx, site, sel, links, runID, jobCh, out, &wg, workerID)
		}

		for idx := range links {
			if ctx.Err() != nil {
				break
			}
			jobCh <- idx
		}
		close(jobCh)
		wg.Wait()
	}

	// links never dispatched because the context ended
	for idx := range out {
		if out[idx].Status == "" {
			out[idx] = domain.LinkOutcome{
				URL:       links[idx],
				Status:    domain.StatusSkipped,
				ErrorKind: domain.KindUnknown,
				Error:     fmt.Sprintf("not processed: %v", ctx.Err()),
			}
		}
	}
	return out
}

// articleWorker processes link indices from jobCh until it is closed.
func (s *Scraper) articleWorker(
	ctx context.Context,
	site sites.Site,
	sel sites.Selectors,
	links []string,
	runID string,
	jobCh <-chan int,
	out []domain.LinkOutcome,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			continue
		}
		out[idx] = s.processLink(ctx, site, sel, links[idx], runID, workerID)
	}
}

// processLink fetches, parses and writes one article. It never returns an error: every
// failure becomes a skipped outcome.
func (s *Scraper) processLink(ctx context.Context, site sites.Site, sel sites.Selectors, link, runID string, workerID int) (outcome domain.LinkOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = s.skip(site, link, runID, workerID, fmt.Errorf("panic while processing article: %v", r))
		}
	}()

	s.log.DebugObj("processing article", "article_start", map[string]any{
		"run_id":    runID,
		"worker_id": workerID,
		"site":      site.Name,
		"url":       link,
	})

	body, err := s.Fetch(ctx, link)
	if err != nil {
		return s.skip(site, link, runID, workerID, err)
	}

	article, err := s.ParseArticle(body, link, site, sel)
	if err != nil {
		return s.skip(site, link, runID, workerID, err)
	}

	path, err := s.writer.Write(article, filepath.Join(s.root, site.Name))
	if err != nil {
		return s.skip(site, link, runID, workerID, err)
	}

	s.log.InfoObj("saved article", "article_written", map[string]any{
		"run_id":     runID,
		"worker_id":  workerID,
		"site":       site.Name,
		"url":        link,
		"path":       path,
		"date":       article.Date,
		"paragraphs": len(article.Paragraphs),
	})

	if s.onPersist != nil {
		s.onPersist(ctx, runID, article, path)
	}

	return domain.LinkOutcome{URL: link, Status: domain.StatusWritten, Path: path}
}

func (s *Scraper) skip(site sites.Site, link, runID string, workerID int, err error) domain.LinkOutcome {
	kind := domain.ErrorKind(err)
	s.log.WarnObj("cannot process article, continuing", "article_skipped", map[string]any{
		"run_id":    runID,
		"worker_id": workerID,
		"site":      site.Name,
		"url":       link,
		"kind":      kind,
		"error":     err.Error(),
	})
	return domain.LinkOutcome{
		URL:       link,
		Status:    domain.StatusSkipped,
		ErrorKind: kind,
		Error:     err.Error(),
	}
}
