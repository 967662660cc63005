package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
	"github.com/Adda-Baaj/khobor-corpus/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

// newsServer serves a listing page at /listing and fixed article pages by path.
func newsServer(t *testing.T, listing string, pages map[string]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/listing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, listing)
	})
	for path, page := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			fmt.Fprint(w, page)
		})
	}

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testSite(srv *httptest.Server) sites.Site {
	return sites.Site{
		Name:              "national_post",
		ListingURL:        srv.URL + "/listing",
		LinkSelector:      "a.card",
		LinkPathFilter:    "/news/",
		LinkPrefix:        strings.TrimPrefix(srv.URL, "https://"),
		BodySelector:      "div.story",
		ParagraphSelector: "p",
	}
}

func listingPage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a class="card" href="%s">story</a>`, h)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func articlePage(title, datetime string, paragraphs ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>%s</title></head><body>`, title)
	fmt.Fprintf(&b, `<time class="timeStamp" datetime="%s"></time><div class="story">`, datetime)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func newTestScraper(t *testing.T, srv *httptest.Server, log logger.Logger, opts ...Option) (*Scraper, string) {
	t.Helper()
	root := t.TempDir()
	client := httpclient.NewRestyClientWith(srv.Client(), 5*time.Second)
	return NewScraper(client, nil, root, log, opts...), root
}

func TestRunWritesArticle(t *testing.T) {
	srv, _ := newsServer(t, listingPage("/news/sample-story"), map[string]string{
		"/news/sample-story": articlePage("Sample Story | National Post", "2024-03-05T10:00:00Z", "Hello world"),
	})
	s, root := newTestScraper(t, srv, nil)

	report, err := s.Run(context.Background(), testSite(srv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Discovered)
	assert.Equal(t, 1, report.Written)
	assert.True(t, report.Clean())
	assert.NotEmpty(t, report.RunID)

	path := filepath.Join(root, "national_post", "05-03-2024", "sample_story.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n\n", string(data))

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.StatusWritten, report.Outcomes[0].Status)
	assert.Equal(t, path, report.Outcomes[0].Path)
	assert.Equal(t, srv.URL+"/news/sample-story", report.Outcomes[0].URL)
}

func TestRunIsolatesArticleFailures(t *testing.T) {
	srv, _ := newsServer(t, listingPage("/news/one", "/news/two", "/news/three"), map[string]string{
		"/news/one":   articlePage("One", "2024-03-05", "first"),
		"/news/two":   `<html><head><title>Two</title></head><body><time class="timeStamp" datetime="2024-03-05"></time></body></html>`,
		"/news/three": articlePage("Three", "2024-03-06", "third"),
	})

	core, logs := observer.New(zapcore.DebugLevel)
	s, root := newTestScraper(t, srv, logger.FromZap(zap.New(core)))

	report, err := s.Run(context.Background(), testSite(srv))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 2, report.Written)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.Clean())

	assert.FileExists(t, filepath.Join(root, "national_post", "05-03-2024", "one.txt"))
	assert.FileExists(t, filepath.Join(root, "national_post", "06-03-2024", "three.txt"))
	assert.NoFileExists(t, filepath.Join(root, "national_post", "05-03-2024", "two.txt"))

	assert.Equal(t, domain.StatusSkipped, report.Outcomes[1].Status)
	assert.Equal(t, domain.KindBodyNotFound, report.Outcomes[1].ErrorKind)

	skipped := logs.FilterField(zap.String("event", "article_skipped")).All()
	require.Len(t, skipped, 1)
	ctx := skipped[0].ContextMap()
	assert.Equal(t, srv.URL+"/news/two", ctx["url"])
	assert.Equal(t, domain.KindBodyNotFound, ctx["kind"])
}

func TestRunSkipsMissingTitleAndDateAndFetchFailures(t *testing.T) {
	srv, _ := newsServer(t, listingPage("/news/untitled", "/news/undated", "/news/gone"), map[string]string{
		"/news/untitled": `<html><body><time class="timeStamp" datetime="2024-03-05"></time><div class="story"><p>x</p></div></body></html>`,
		"/news/undated":  `<html><head><title>Undated</title></head><body><div class="story"><p>x</p></div></body></html>`,
	})
	s, _ := newTestScraper(t, srv, nil)

	report, err := s.Run(context.Background(), testSite(srv))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Written)
	assert.Equal(t, 3, report.Skipped)

	kinds := []string{report.Outcomes[0].ErrorKind, report.Outcomes[1].ErrorKind, report.Outcomes[2].ErrorKind}
	assert.Equal(t, []string{domain.KindTitleNotFound, domain.KindDateNotFound, domain.KindNetwork}, kinds)
}

func TestRunDiscoveryFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "listing unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s, root := newTestScraper(t, srv, nil)
	report, err := s.Run(context.Background(), testSite(srv))
	require.Error(t, err)

	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Contains(t, err.Error(), "listing unavailable")

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Failed)
	assert.Zero(t, report.Discovered)
	assert.NoDirExists(t, filepath.Join(root, "national_post"))
}

func TestRunBadSelectorIsMarkupError(t *testing.T) {
	srv, hits := newsServer(t, listingPage("/news/a"), nil)
	s, _ := newTestScraper(t, srv, nil)

	site := testSite(srv)
	site.BodySelector = "div["

	_, err := s.Run(context.Background(), site)
	require.Error(t, err)
	assert.Equal(t, domain.KindMarkup, domain.ErrorKind(err))
	assert.Zero(t, hits.Load(), "no request is made with a broken selector")
}

func TestRunWorkerPoolKeepsDiscoveryOrder(t *testing.T) {
	var hrefs []string
	pages := map[string]string{}
	for i := range 12 {
		path := fmt.Sprintf("/news/story-%d", i)
		hrefs = append(hrefs, path)
		pages[path] = articlePage(fmt.Sprintf("Story %d", i), "2024-03-05", fmt.Sprintf("body %d", i))
	}
	srv, _ := newsServer(t, listingPage(hrefs...), pages)

	var (
		mu        sync.Mutex
		persisted []string
	)
	hook := func(_ context.Context, runID string, article domain.Article, path string) {
		mu.Lock()
		defer mu.Unlock()
		assert.NotEmpty(t, runID)
		assert.Equal(t, "national_post", article.Site)
		persisted = append(persisted, path)
	}

	s, root := newTestScraper(t, srv, nil, WithWorkers(4), WithPersistHook(hook))
	report, err := s.Run(context.Background(), testSite(srv))
	require.NoError(t, err)
	assert.Equal(t, 12, report.Written)

	for i, o := range report.Outcomes {
		assert.Equal(t, srv.URL+hrefs[i], o.URL)
		assert.Equal(t, filepath.Join(root, "national_post", "05-03-2024", fmt.Sprintf("story_%d.txt", i)), o.Path)
	}
	assert.Len(t, persisted, 12)
}

func TestRunCancelledContext(t *testing.T) {
	srv, _ := newsServer(t, listingPage("/news/a"), nil)
	s, _ := newTestScraper(t, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, testSite(srv))
	assert.Equal(t, domain.KindNetwork, domain.ErrorKind(err))
}

func TestDiscoverFiltersLinks(t *testing.T) {
	listing := `<html><body>
		<a class="card" href="/news/one">one</a>
		<a class="card" href="/sports/two">two</a>
		<a href="/news/unstyled">three</a>
		<a class="card">no href</a>
		<a class="card" href="/news/four">four</a>
	</body></html>`
	srv, _ := newsServer(t, listing, nil)
	s, _ := newTestScraper(t, srv, nil)
	site := testSite(srv)

	links, err := s.Discover(context.Background(), site)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://" + site.LinkPrefix + "/news/one",
		"https://" + site.LinkPrefix + "/news/four",
	}, links)

	for _, l := range links {
		assert.True(t, strings.HasPrefix(l, "https://"+site.LinkPrefix))
		assert.Contains(t, l, site.LinkPathFilter)
	}
}

func TestDiscoverEmptyListing(t *testing.T) {
	srv, _ := newsServer(t, "<html><body><p>nothing today</p></body></html>", nil)
	s, _ := newTestScraper(t, srv, nil)

	links, err := s.Discover(context.Background(), testSite(srv))
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.UserAgent())
		fmt.Fprint(w, "ok")
	}))
	t.Cleanup(srv.Close)

	s, _ := newTestScraper(t, srv, nil, WithUserAgent("corpus-test/2.0"))
	body, err := s.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "corpus-test/2.0", got.Load())
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	s, _ := newTestScraper(t, srv, nil)
	_, err := s.Fetch(context.Background(), srv.URL+"/missing")

	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	assert.Equal(t, srv.URL+"/missing", netErr.URL)
}

func TestResponseSnippet(t *testing.T) {
	assert.Equal(t, "<empty>", responseSnippet([]byte("  ")))
	assert.Equal(t, "short", responseSnippet([]byte(" short\n")))

	long := responseSnippet([]byte(strings.Repeat("a", 600)))
	assert.Len(t, long, 515)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestWithWorkersBounds(t *testing.T) {
	s := NewScraper(nil, nil, t.TempDir(), nil, WithWorkers(0))
	assert.Equal(t, 1, s.workers)

	s = NewScraper(nil, nil, t.TempDir(), nil, WithWorkers(1000))
	assert.Equal(t, maxArticleWorkers, s.workers)
}
