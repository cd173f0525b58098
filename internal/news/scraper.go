package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper handles scraping news from multiple sources
type Scraper struct {
	sources        []NewsSource
	timeout        time.Duration
	articlePause   time.Duration
	googleFallback bool
	now            func() time.Time
}

var _ interfaces.NewsProvider = (*Scraper)(nil)

// NewsSource defines a news source configuration
type NewsSource struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g., "/search?q={symbol}"
	MarketPath string // general market listing; empty skips the source for market news
	Selectors  ArticleSelectors
	RateLimit  time.Duration
}

// ArticleSelectors defines CSS selectors for extracting article data
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Content          string
	PublishedAt      string
}

type ScraperOption func(*Scraper)

// WithSources replaces the default source list.
func WithSources(sources ...NewsSource) ScraperOption {
	return func(s *Scraper) { s.sources = sources }
}

// WithArticlePause sets the delay between full-article fetches.
func WithArticlePause(d time.Duration) ScraperOption {
	return func(s *Scraper) { s.articlePause = d }
}

// WithoutGoogleFallback disables the Google News search used when every
// source comes back empty.
func WithoutGoogleFallback() ScraperOption {
	return func(s *Scraper) { s.googleFallback = false }
}

// NewScraper creates a new news scraper with default sources
func NewScraper(timeout time.Duration, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		sources:        getDefaultSources(),
		timeout:        timeout,
		articlePause:   500 * time.Millisecond,
		googleFallback: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getDefaultSources returns a list of financial news sources to scrape
func getDefaultSources() []NewsSource {
	return []NewsSource{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			MarketPath: "/news/business/markets/",
			Selectors: ArticleSelectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Content:          "p",
				PublishedAt:      "span.ago",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Economic Times",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			MarketPath: "/markets/stocks/news",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.story-box, div.eachStory",
				Title:            "a",
				URL:              "a",
				Content:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Business Standard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={symbol}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.listing-txt",
				Title:            "a.Hdng",
				URL:              "a.Hdng",
				Content:          "p",
				PublishedAt:      "span.listing-date",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Fetch scrapes up to limit articles for symbol across all sources, or
// general market news when symbol is empty.
func (s *Scraper) Fetch(ctx context.Context, symbol string, limit int) ([]types.Article, error) {
	if limit <= 0 {
		limit = 15
	}
	logger.Info(ctx, "Starting news scraping", "symbol", symbol, "sources", len(s.sources))

	allArticles := []types.Article{}
	perSource := limit / max(len(s.sources), 1)
	if perSource < 1 {
		perSource = 1
	}

	for i, source := range s.sources {
		if err := ctx.Err(); err != nil {
			return allArticles, err
		}
		if symbol == "" && source.MarketPath == "" {
			continue
		}
		articles, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		allArticles = append(allArticles, articles...)

		if i < len(s.sources)-1 {
			if err := sleepCtx(ctx, source.RateLimit); err != nil {
				return allArticles, err
			}
		}
	}

	if len(allArticles) == 0 && s.googleFallback {
		query := symbol
		if query == "" {
			query = "Nifty 50"
		}
		logger.Info(ctx, "No articles from primary sources, trying Google News", "symbol", symbol)
		articles, err := s.ScrapeGoogleNews(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		for i := range articles {
			articles[i].Symbol = symbol
		}
		allArticles = articles
	}

	if len(allArticles) > limit {
		allArticles = allArticles[:limit]
	}
	logger.Info(ctx, "News scraping completed", "symbol", symbol, "articles", len(allArticles))
	return allArticles, nil
}

// scrapeSource scrapes articles from a single news source
func (s *Scraper) scrapeSource(ctx context.Context, source NewsSource, symbol string, maxArticles int) ([]types.Article, error) {
	articles := []types.Article{}
	now := s.now()

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := cleanText(e.DOM.Find(source.Selectors.Title).First())
		if title == "" {
			return
		}

		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		articleURL = e.Request.AbsoluteURL(articleURL)

		articles = append(articles, types.Article{
			Title:       title,
			Description: stripHTML(cleanText(e.DOM.Find(source.Selectors.Content).First())),
			URL:         articleURL,
			Source:      source.Name,
			PublishedAt: parsePublished(cleanText(e.DOM.Find(source.Selectors.PublishedAt).First()), now),
			Category:    categoryFor(symbol),
			Symbol:      symbol,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	pageURL := source.BaseURL + source.MarketPath
	if symbol != "" {
		pageURL = source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", url.PathEscape(strings.ToLower(symbol)))
	}

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	return s.enrichArticles(ctx, articles), nil
}

// enrichArticles fetches full content for articles whose listing only carried a summary
func (s *Scraper) enrichArticles(ctx context.Context, articles []types.Article) []types.Article {
	enriched := make([]types.Article, len(articles))
	copy(enriched, articles)

	for i := range enriched {
		if len(enriched[i].Description) >= 100 {
			continue
		}
		if fullContent := s.fetchArticleContent(ctx, enriched[i].URL); fullContent != "" {
			enriched[i].Description = fullContent
		}
		if err := sleepCtx(ctx, s.articlePause); err != nil {
			break
		}
	}

	return enriched
}

// fetchArticleContent fetches full content from an article URL
func (s *Scraper) fetchArticleContent(ctx context.Context, articleURL string) string {
	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	var content string

	c.OnHTML("article, div.article-body, div.content-body, div.story-content", func(e *colly.HTMLElement) {
		if content != "" {
			return
		}
		paragraphs := []string{}
		e.DOM.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := cleanText(p); len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		content = strings.Join(paragraphs, "\n\n")
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	if err := c.Visit(articleURL); err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article content", err, "url", articleURL)
		return ""
	}

	return content
}

// ScrapeGoogleNews searches Google News for company news (fallback method)
func (s *Scraper) ScrapeGoogleNews(ctx context.Context, query string, maxArticles int) ([]types.Article, error) {
	articles := []types.Article{}
	now := s.now()

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := cleanText(e.DOM.Find("h3, h4").First())
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		// Google News links are relative redirects
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		articles = append(articles, types.Article{
			Title:       title,
			URL:         link,
			Source:      "Google News",
			PublishedAt: parsePublished(e.ChildAttr("time", "datetime"), now),
			Category:    "general",
		})
	})

	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", url.QueryEscape(query+" stock news India"))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	logger.Info(ctx, "Google News scraping completed", "query", query, "articles", len(articles))
	return articles, nil
}

// getDomain extracts domain from URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func categoryFor(symbol string) string {
	if symbol == "" {
		return "market"
	}
	return "stock"
}

// cleanText collapses the whitespace in a selection's text.
func cleanText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// stripHTML removes markup some listings embed in their summaries.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return cleanText(doc.Selection)
}

var publishedLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"Jan 2, 2006, 03:04 PM IST",
	"January 2, 2006 15:04 IST",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// parsePublished falls back to now for relative or unrecognised stamps.
func parsePublished(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
