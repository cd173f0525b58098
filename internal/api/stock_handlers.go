package api

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"market-sentiment/internal/logger"
	"market-sentiment/internal/market"
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/ta"
	"market-sentiment/internal/types"
)

type stocksResponse struct {
	Stocks []QuoteView `json:"stocks"`
	Count  int         `json:"count"`
	Sector string      `json:"sector,omitempty"`
}

// GET /api/stocks?sector=
func (s *Server) listStocks(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.deps.Market.AllQuotes(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sector := r.URL.Query().Get("sector")
	if sector != "" {
		quotes = market.BySector(quotes, sector)
	}
	render.JSON(w, r, stocksResponse{Stocks: quoteViews(quotes), Count: len(quotes), Sector: sector})
}

// GET /api/stocks/{symbol}
func (s *Server) stockQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.deps.Market.Quote(r.Context(), symbolParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, quoteView(q))
}

type candleView struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Indicators are computed over the returned candles; each is null when the
// series is too short for its window.
type Indicators struct {
	SMA5           *float64 `json:"sma5"`
	SMA20          *float64 `json:"sma20"`
	RSI14          *float64 `json:"rsi14"`
	BollingerMid   *float64 `json:"bollingerMid"`
	BollingerUpper *float64 `json:"bollingerUpper"`
	BollingerLower *float64 `json:"bollingerLower"`
	ATR14          *float64 `json:"atr14"`
	EMA12          *float64 `json:"ema12"`
	EMA26          *float64 `json:"ema26"`
	MACD           *float64 `json:"macd"`
	MACDSignal     *float64 `json:"macdSignal"`
	MACDHistogram  *float64 `json:"macdHistogram"`
	Volatility     *float64 `json:"volatility"`
}

type historyResponse struct {
	Symbol     string       `json:"symbol"`
	Days       int          `json:"days"`
	Candles    []candleView `json:"candles"`
	Indicators Indicators   `json:"indicators"`
}

// GET /api/stocks/{symbol}/history?days=30
func (s *Server) stockHistory(w http.ResponseWriter, r *http.Request) {
	days, err := s.intParam(r, "days", s.cfg.HistoryDays, "gte=1,lte=365")
	if err != nil {
		writeError(w, r, err)
		return
	}
	symbol := symbolParam(r)
	candles, err := s.deps.Market.History(r.Context(), symbol, days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]candleView, len(candles))
	for i, c := range candles {
		views[i] = candleView{
			Date:   time.Unix(c.Ts, 0).UTC().Format(time.DateOnly),
			Open:   round2(c.Open),
			High:   round2(c.High),
			Low:    round2(c.Low),
			Close:  round2(c.Close),
			Volume: c.Vol,
		}
	}
	render.JSON(w, r, historyResponse{
		Symbol:     symbol,
		Days:       len(candles),
		Candles:    views,
		Indicators: indicators(candles),
	})
}

func indicators(candles []types.Candle) Indicators {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i], highs[i], lows[i] = c.Close, c.High, c.Low
	}
	mid, up, low := ta.Bollinger(closes, 20, 2)
	macd, signal, hist := ta.MACD(closes, 12, 26, 9)

	// daily percent returns
	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		returns = append(returns, ta.PercentChange(closes[i-1], closes[i]))
	}

	return Indicators{
		SMA5:           optional2(ta.SMA(closes, 5)),
		SMA20:          optional2(ta.SMA(closes, 20)),
		RSI14:          optional2(ta.RSI(closes, 14)),
		BollingerMid:   optional2(mid),
		BollingerUpper: optional2(up),
		BollingerLower: optional2(low),
		ATR14:          optional2(ta.ATR(highs, lows, closes, 14)),
		EMA12:          optional2(ta.EMA(closes, 12)),
		EMA26:          optional2(ta.EMA(closes, 26)),
		MACD:           optional2(macd),
		MACDSignal:     optional2(signal),
		MACDHistogram:  optional2(hist),
		Volatility:     optional2(ta.StdDev(returns, len(returns))),
	}
}

// GET /api/stocks/{symbol}/sentiment
func (s *Server) stockSentiment(w http.ResponseWriter, r *http.Request) {
	sq, err := s.deps.Market.Sentiment(r.Context(), symbolParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sq.Sentiment != nil {
		s.deps.Tracker.AddStockSentiment(sq.Symbol, sq.Name, sentiment.ResultFromStock(*sq.Sentiment), sq.Sentiment)
		logger.Sentiment(r.Context(), sq.Symbol, string(sentiment.LabelFor(sq.Sentiment.OverallSentiment)), sq.Sentiment.OverallSentiment, sq.Sentiment.Confidence,
			"trend", sq.Sentiment.Trend,
			"strength", sq.Sentiment.Strength,
			"change_percent", sq.ChangePercent,
		)
	}
	render.JSON(w, r, quoteView(sq))
}

type trendResponse struct {
	Symbol        string             `json:"symbol"`
	WindowMinutes int                `json:"windowMinutes"`
	Sentiment     StockSentimentView `json:"sentiment"`
}

// GET /api/stocks/{symbol}/sentiment/trend?window=60
func (s *Server) stockSentimentTrend(w http.ResponseWriter, r *http.Request) {
	st, ok := s.deps.Market.Lookup(symbolParam(r))
	if !ok {
		writeError(w, r, notFound(CodeUnknownSymbol, "unknown symbol %q", symbolParam(r)))
		return
	}
	window, err := s.window(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, found := s.deps.Tracker.StockSentimentTrend(st.Symbol, window)
	if !found {
		writeError(w, r, notFound(CodeNoHistory, "no tracked sentiment for %s in the last %d minutes", st.Symbol, int(window.Minutes())))
		return
	}
	render.JSON(w, r, trendResponse{
		Symbol:        st.Symbol,
		WindowMinutes: int(window.Minutes()),
		Sentiment:     stockView(data),
	})
}
