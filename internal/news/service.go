package news

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"market-sentiment/internal/cache"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/types"
)

const (
	marketKey = "market"

	SortPublishedAt = "publishedAt"
	SortSentiment   = "sentiment"
	SortRelevance   = "relevance"

	DefaultLimit = 100
)

// Service turns raw headlines into analysed, cached news items.
type Service struct {
	provider interfaces.NewsProvider
	fallback interfaces.NewsProvider
	analyzer interfaces.TextAnalyzer
	tracker  *sentiment.Tracker
	cache    *cache.Cache[[]types.NewsItem]
	cfg      ServiceConfig
}

// ServiceConfig configures the news service
type ServiceConfig struct {
	MaxArticles int           // Maximum articles to fetch per key
	CacheTTL    time.Duration // How long analysed items are served from cache
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxArticles: 15,
		CacheTTL:    10 * time.Minute,
	}
}

// NewService uses fallback whenever provider fails or returns nothing. A nil
// provider means fallback only. tracker may be nil.
func NewService(provider, fallback interfaces.NewsProvider, analyzer interfaces.TextAnalyzer, tracker *sentiment.Tracker, cfg ServiceConfig) *Service {
	if provider == nil {
		provider = fallback
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = DefaultServiceConfig().MaxArticles
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultServiceConfig().CacheTTL
	}
	return &Service{
		provider: provider,
		fallback: fallback,
		analyzer: analyzer,
		tracker:  tracker,
		cache:    cache.New[[]types.NewsItem]("news", cfg.CacheTTL),
		cfg:      cfg,
	}
}

// Items returns analysed news for symbol, or market news when symbol is
// empty. Fresh items are recorded in the tracker; cache hits are not.
func (s *Service) Items(ctx context.Context, symbol string) ([]types.NewsItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key := cacheKey(symbol)

	if cached, ok := s.cache.Get(key); ok {
		logger.Debug(ctx, "Using cached news", "key", key, "items", len(cached))
		return cloneItems(cached), nil
	}

	articles, err := s.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	items := make([]types.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, s.analyze(ctx, a, symbol))
	}
	s.cache.Set(key, items)
	logger.Info(ctx, "News analysed", "key", key, "items", len(items))
	return cloneItems(items), nil
}

func (s *Service) fetch(ctx context.Context, symbol string) ([]types.Article, error) {
	articles, err := s.provider.Fetch(ctx, symbol, s.cfg.MaxArticles)
	if err == nil && len(articles) > 0 {
		return articles, nil
	}
	if s.fallback == nil || s.fallback == s.provider {
		return articles, err
	}
	if err != nil {
		logger.Warn(ctx, "News fetch failed, using static feed", "symbol", symbol, "error", err.Error())
	} else {
		logger.Warn(ctx, "News fetch returned nothing, using static feed", "symbol", symbol)
	}
	return s.fallback.Fetch(ctx, symbol, s.cfg.MaxArticles)
}

func (s *Service) analyze(ctx context.Context, a types.Article, symbol string) types.NewsItem {
	content := strings.TrimSpace(a.Title + ". " + a.Description)
	result := s.analyzer.Analyze(ctx, content)

	tags := mergeUnique(a.Tags, extractTags(content))
	symbols := extractStockSymbols(content)
	if symbol != "" {
		symbols = mergeUnique([]string{symbol}, symbols)
	}

	if s.tracker != nil {
		s.tracker.AddStockSentiment(symbol, a.Title, result, nil)
	}
	return types.NewsItem{
		ID:           itemID(a),
		Title:        a.Title,
		Description:  a.Description,
		URL:          a.URL,
		Source:       a.Source,
		PublishedAt:  a.PublishedAt,
		Category:     a.Category,
		Sentiment:    result,
		Tags:         tags,
		StockSymbols: symbols,
	}
}

// itemID is stable for the same article across fetches.
func itemID(a types.Article) string {
	name := a.URL
	if name == "" {
		name = a.Source + "|" + a.Title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Query selects a page of news.
type Query struct {
	Symbol   string
	Category string
	SortBy   string
	Page     int
	Limit    int
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type SentimentCounts struct {
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	AverageScore float64 `json:"averageScore"`
}

type Statistics struct {
	Sentiment     SentimentCounts `json:"sentiment"`
	Categories    []string        `json:"categories"`
	Sources       []string        `json:"sources"`
	TotalArticles int             `json:"totalArticles"`
}

type Page struct {
	News       []types.NewsItem `json:"news"`
	Pagination Pagination       `json:"pagination"`
	Statistics Statistics       `json:"statistics"`
}

// Query filters, sorts and paginates; statistics cover the whole filtered
// set rather than the page.
func (s *Service) Query(ctx context.Context, q Query) (Page, error) {
	items, err := s.Items(ctx, q.Symbol)
	if err != nil {
		return Page{}, err
	}
	items = FilterByCategory(items, q.Category)
	SortItems(items, q.SortBy)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	total := len(items)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	return Page{
		News: items[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			HasNext:    end < total,
			HasPrev:    page > 1,
		},
		Statistics: Summarize(items),
	}, nil
}

// FilterByCategory keeps items whose category or tags match; "" and "all"
// keep everything.
func FilterByCategory(items []types.NewsItem, category string) []types.NewsItem {
	if category == "" || strings.EqualFold(category, "all") {
		return items
	}
	want := strings.ToLower(category)
	out := make([]types.NewsItem, 0, len(items))
	for _, it := range items {
		if it.Category == category || slices.Contains(it.Tags, want) {
			out = append(out, it)
		}
	}
	return out
}

// SortItems sorts in place. Unknown keys sort by publication time.
func SortItems(items []types.NewsItem, by string) {
	switch by {
	case SortSentiment:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Sentiment.Score > items[j].Sentiment.Score
		})
	case SortRelevance:
		sort.SliceStable(items, func(i, j int) bool {
			return relevance(items[i]) > relevance(items[j])
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		})
	}
}

func relevance(it types.NewsItem) int {
	return len(it.StockSymbols) + len(it.Tags)
}

// Summarize counts labels and collects categories and sources in first-seen order.
func Summarize(items []types.NewsItem) Statistics {
	st := Statistics{
		Categories:    []string{},
		Sources:       []string{},
		TotalArticles: len(items),
	}
	var sum float64
	for _, it := range items {
		switch it.Sentiment.Label {
		case types.LabelPositive:
			st.Sentiment.Positive++
		case types.LabelNegative:
			st.Sentiment.Negative++
		default:
			st.Sentiment.Neutral++
		}
		sum += it.Sentiment.Score
		if it.Category != "" && !slices.Contains(st.Categories, it.Category) {
			st.Categories = append(st.Categories, it.Category)
		}
		if !slices.Contains(st.Sources, it.Source) {
			st.Sources = append(st.Sources, it.Source)
		}
	}
	if len(items) > 0 {
		st.Sentiment.AverageScore = sum / float64(len(items))
	}
	return st
}

// ClearCache drops every cached key
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// CachedKeys lists the live cache keys
func (s *Service) CachedKeys() []string {
	return s.cache.Keys()
}

func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// RunCacheCleanup evicts expired entries until ctx is done.
func (s *Service) RunCacheCleanup(ctx context.Context, interval time.Duration) {
	s.cache.RunCleanup(ctx, interval)
}

func cacheKey(symbol string) string {
	if symbol == "" {
		return marketKey
	}
	return symbol
}

func cloneItems(in []types.NewsItem) []types.NewsItem {
	out := make([]types.NewsItem, len(in))
	copy(out, in)
	return out
}

func mergeUnique(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, group := range [][]string{a, b} {
		for _, v := range group {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}
