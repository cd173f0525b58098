package api

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"market-sentiment/internal/cache"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/market"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/news"
	"market-sentiment/internal/types"
)

const topN = 5

// GET /api/stocks/sectors
func (s *Server) sectors(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.deps.Market.AllQuotes(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sums := s.deps.Aggregate.Sectors(quotes)
	out := make([]sectorSummaryView, len(sums))
	for i, sum := range sums {
		out[i] = summaryView(sum)
	}
	render.JSON(w, r, map[string]any{
		"sectors": out,
		"count":   len(out),
	})
}

type marketSentimentView struct {
	Label      types.Label `json:"label"`
	Score      float64     `json:"score"`
	Confidence float64     `json:"confidence"`
}

type overviewTotals struct {
	TotalStocks     int                 `json:"totalStocks"`
	Gainers         int                 `json:"gainers"`
	Losers          int                 `json:"losers"`
	Unchanged       int                 `json:"unchanged"`
	AvgChange       float64             `json:"avgChange"`
	TotalTurnover   float64             `json:"totalTurnover"` // crores
	TotalVolume     float64             `json:"totalVolume"`   // millions
	MarketSentiment marketSentimentView `json:"marketSentiment"`
}

type performerView struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	ChangePercent float64 `json:"changePercent"`
	Price         float64 `json:"price"`
	Volume        float64 `json:"volume"`
}

type topPerformers struct {
	Gainers    []performerView `json:"gainers"`
	Losers     []performerView `json:"losers"`
	MostActive []performerView `json:"mostActive"`
}

type sectorView struct {
	Sector         string      `json:"sector"`
	StockCount     int         `json:"stockCount"`
	AvgChange      float64     `json:"avgChange"`
	TotalWeightage float64     `json:"totalWeightage"`
	Sentiment      types.Label `json:"sentiment"`
}

type newsAnalysis struct {
	TotalNews          int                  `json:"totalNews"`
	AvgSentiment       float64              `json:"avgSentiment"`
	SentimentBreakdown news.SentimentCounts `json:"sentimentBreakdown"`
}

type trackedView struct {
	Recent   types.SentimentResult `json:"recent"`
	Trending types.Direction       `json:"trending"`
	Entries  int                   `json:"entries"`
}

type overviewResponse struct {
	MarketOverview   overviewTotals           `json:"marketOverview"`
	TopPerformers    topPerformers            `json:"topPerformers"`
	SectorAnalysis   []sectorView             `json:"sectorAnalysis"`
	NewsAnalysis     newsAnalysis             `json:"newsAnalysis"`
	TrackedSentiment trackedView              `json:"trackedSentiment"`
	CacheStats       map[string][]cache.Stats `json:"cacheStats"`
	Timestamp        time.Time                `json:"timestamp"`
}

// GET /api/market/overview
func (s *Server) marketOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quotes, err := s.deps.Market.AllQuotes(ctx, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	agg := s.deps.Aggregate.Market(market.Movers(quotes))
	metrics.MarketScore.Set(agg.Score)
	logger.Market(ctx, "index", string(agg.Label), agg.Score,
		"confidence", agg.Confidence,
		"avg_change", agg.AvgChange,
		"stocks", agg.Total,
	)

	var turnover, volume float64
	for _, q := range quotes {
		turnover += q.Price * q.Volume
		volume += q.Volume
	}

	sectors := s.deps.Aggregate.Sectors(quotes)
	sectorViews := make([]sectorView, len(sectors))
	for i, sum := range sectors {
		sectorViews[i] = sectorView{
			Sector:         sum.Sector,
			StockCount:     sum.Count,
			AvgChange:      round2(sum.AvgChange),
			TotalWeightage: round2(sum.TotalWeightage),
			Sentiment:      sum.Sentiment.Label,
		}
	}

	var items []types.NewsItem
	stats := []cache.Stats{}
	if s.deps.News != nil {
		items, err = s.deps.News.Items(ctx, "")
		if err != nil {
			logger.Warn(ctx, "Market news unavailable for overview", "error", err.Error())
		}
		stats = append(stats, s.deps.News.CacheStats())
	}
	newsStats := news.Summarize(items)
	newsStats.Sentiment.AverageScore = round2(newsStats.Sentiment.AverageScore)

	render.JSON(w, r, overviewResponse{
		MarketOverview: overviewTotals{
			TotalStocks:   agg.Total,
			Gainers:       agg.Positive,
			Losers:        agg.Negative,
			Unchanged:     agg.Neutral,
			AvgChange:     round2(agg.AvgChange),
			TotalTurnover: round2(turnover / 1e7),
			TotalVolume:   round2(volume / 1e6),
			MarketSentiment: marketSentimentView{
				Label:      agg.Label,
				Score:      round2(agg.Score),
				Confidence: round2(agg.Confidence),
			},
		},
		TopPerformers: topPerformers{
			Gainers:    performers(market.TopGainers(quotes, topN)),
			Losers:     performers(market.TopLosers(quotes, topN)),
			MostActive: performers(market.MostActive(quotes, topN)),
		},
		SectorAnalysis: sectorViews,
		NewsAnalysis: newsAnalysis{
			TotalNews:          newsStats.TotalArticles,
			AvgSentiment:       newsStats.Sentiment.AverageScore,
			SentimentBreakdown: newsStats.Sentiment,
		},
		TrackedSentiment: trackedView{
			Recent:   roundResult(s.deps.Tracker.RecentSentiment(s.cfg.DefaultWindow)),
			Trending: s.deps.Tracker.TrendingSentiment(),
			Entries:  s.deps.Tracker.Len(),
		},
		CacheStats: map[string][]cache.Stats{
			"stocks": s.deps.Market.CacheStats(),
			"news":   stats,
		},
		Timestamp: s.now().UTC(),
	})
}

func performers(quotes []types.StockQuote) []performerView {
	out := make([]performerView, len(quotes))
	for i, q := range quotes {
		out[i] = performerView{
			Symbol:        q.Symbol,
			Name:          q.Name,
			ChangePercent: round2(q.ChangePercent),
			Price:         round2(q.Price),
			Volume:        q.Volume,
		}
	}
	return out
}
