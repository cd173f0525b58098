package api

import (
	"net/http"

	"github.com/go-chi/render"

	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/types"
)

type analyzeTextRequest struct {
	Text  string `json:"text" validate:"required,max=20000"`
	Track *bool  `json:"track"`
}

type analyzeStockRequest struct {
	Symbol        string    `json:"symbol" validate:"omitempty,max=20"`
	Price         *float64  `json:"price" validate:"required"`
	PreviousClose *float64  `json:"previousClose" validate:"required"`
	DayHigh       float64   `json:"dayHigh" validate:"gte=0"`
	DayLow        float64   `json:"dayLow" validate:"gte=0"`
	Volume        float64   `json:"volume" validate:"gte=0"`
	AvgVolume     float64   `json:"avgVolume" validate:"gte=0"`
	PriceHistory  []float64 `json:"priceHistory" validate:"max=1000"`
	Track         *bool     `json:"track"`
}

// tracked defaults to true when the client does not say.
func tracked(flag *bool) bool {
	return flag == nil || *flag
}

// POST /api/sentiment/analyze
func (s *Server) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res := s.deps.Text.Analyze(r.Context(), req.Text)
	if tracked(req.Track) {
		s.deps.Tracker.AddSentiment(req.Text, res, nil)
	}
	render.JSON(w, r, roundResult(res))
}

// POST /api/sentiment/stock
func (s *Server) analyzeStock(w http.ResponseWriter, r *http.Request) {
	var req analyzeStockRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := types.StockInput{
		Symbol:        req.Symbol,
		Price:         *req.Price,
		PreviousClose: *req.PreviousClose,
		DayHigh:       req.DayHigh,
		DayLow:        req.DayLow,
		Volume:        req.Volume,
		AvgVolume:     req.AvgVolume,
		PriceHistory:  req.PriceHistory,
	}
	data, err := s.deps.Stock.AnalyzeStock(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tracked(req.Track) {
		s.deps.Tracker.AddStockSentiment(req.Symbol, req.Symbol, sentiment.ResultFromStock(data), &data)
	}
	render.JSON(w, r, stockView(data))
}

type recentResponse struct {
	WindowMinutes int                   `json:"windowMinutes"`
	Sentiment     types.SentimentResult `json:"sentiment"`
	TrackerSize   int                   `json:"trackerSize"`
}

// GET /api/sentiment/recent?window=60
func (s *Server) recentSentiment(w http.ResponseWriter, r *http.Request) {
	window, err := s.window(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, recentResponse{
		WindowMinutes: int(window.Minutes()),
		Sentiment:     roundResult(s.deps.Tracker.RecentSentiment(window)),
		TrackerSize:   s.deps.Tracker.Len(),
	})
}

// GET /api/sentiment/trending
func (s *Server) trendingSentiment(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"direction":   s.deps.Tracker.TrendingSentiment(),
		"trackerSize": s.deps.Tracker.Len(),
	})
}
