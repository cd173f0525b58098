package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body><ul>
<li class="item"><h2><a href="/story/1">Infosys   wins large
 deal</a></h2><p>Infosys signed a multi-year contract with a European bank, adding to a record order book that analysts expect to lift margins.</p><span class="when">2024-05-01T09:00:00Z</span></li>
<li class="item"><h2><a href="/story/2">Infosys shares slip</a></h2><p>Short.</p><span class="when">2 hours ago</span></li>
<li class="item"><h2></h2><p>No title here.</p></li>
</ul></body></html>`

const storyPage = `<html><body><article>
<p>Infosys shares slipped two percent on Thursday after a cautious commentary.</p>
<p>ok</p>
<p>Analysts said the guidance cut was already priced in by most investors.</p>
</article></body></html>`

func newTestSite(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/tags/infy", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, listingPage)
	})
	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, listingPage)
	})
	mux.HandleFunc("/story/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, storyPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testSource(baseURL, marketPath string) NewsSource {
	return NewsSource{
		Name:       "Test Wire",
		BaseURL:    baseURL,
		SearchPath: "/tags/{symbol}",
		MarketPath: marketPath,
		Selectors: ArticleSelectors{
			ArticleContainer: "li.item",
			Title:            "h2 a",
			URL:              "h2 a",
			Content:          "p",
			PublishedAt:      "span.when",
		},
	}
}

func newTestScraper(sources ...NewsSource) *Scraper {
	s := NewScraper(5*time.Second, WithSources(sources...), WithArticlePause(0), WithoutGoogleFallback())
	s.now = fixedNow
	return s
}

func TestScraperFetchSymbol(t *testing.T) {
	srv, _ := newTestSite(t)
	s := newTestScraper(testSource(srv.URL, ""))

	articles, err := s.Fetch(context.Background(), "INFY", 10)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Infosys wins large deal", first.Title)
	assert.Equal(t, srv.URL+"/story/1", first.URL)
	assert.Equal(t, "Test Wire", first.Source)
	assert.Equal(t, "INFY", first.Symbol)
	assert.Equal(t, "stock", first.Category)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), first.PublishedAt)
	assert.True(t, strings.HasPrefix(first.Description, "Infosys signed"))

	second := articles[1]
	assert.Equal(t, fixedNow(), second.PublishedAt)
	assert.Contains(t, second.Description, "slipped two percent")
	assert.Contains(t, second.Description, "\n\n")
	assert.NotContains(t, second.Description, "ok\n")
}

func TestScraperFetchLimit(t *testing.T) {
	srv, _ := newTestSite(t)
	s := newTestScraper(testSource(srv.URL, ""))

	articles, err := s.Fetch(context.Background(), "INFY", 1)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestScraperMarketNewsSkipsSourcesWithoutListing(t *testing.T) {
	srv, hits := newTestSite(t)
	s := newTestScraper(testSource(srv.URL, ""), testSource(srv.URL, "/markets"))

	articles, err := s.Fetch(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, *hits)
	require.NotEmpty(t, articles)
	assert.Equal(t, "market", articles[0].Category)
	assert.Empty(t, articles[0].Symbol)
}

func TestScraperFailedSourceIsSkipped(t *testing.T) {
	srv, _ := newTestSite(t)
	broken := testSource("http://127.0.0.1:1", "")
	s := newTestScraper(broken, testSource(srv.URL, ""))

	articles, err := s.Fetch(context.Background(), "INFY", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, articles)
}

func TestScraperCancelledContext(t *testing.T) {
	srv, hits := newTestSite(t)
	s := newTestScraper(testSource(srv.URL, ""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Fetch(ctx, "INFY", 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, *hits)
}

func TestParsePublished(t *testing.T) {
	now := fixedNow()
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), parsePublished("Apr 30, 2024", now))
	assert.Equal(t, now, parsePublished("yesterday", now))
	assert.Equal(t, now, parsePublished("", now))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "bold move", stripHTML("<b>bold</b> move"))
}
