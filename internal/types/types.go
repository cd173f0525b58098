package types

import "time"

type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Direction is how tracked sentiment is moving over the most recent entries.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// SentimentResult is the scored outcome of a piece of text.
type SentimentResult struct {
	Score       float64  `json:"score"`
	Comparative float64  `json:"comparative"`
	Label       Label    `json:"label"`
	Confidence  float64  `json:"confidence"`
	Magnitude   float64  `json:"magnitude"`
	Keywords    []string `json:"keywords"`
}

// StockSentimentData holds the four sub-scores of a single instrument and
// the composite derived from them. All scores are on a 0-10 scale.
type StockSentimentData struct {
	PriceSentiment      float64  `json:"priceSentiment"`
	VolumeSentiment     float64  `json:"volumeSentiment"`
	VolatilitySentiment float64  `json:"volatilitySentiment"`
	MomentumSentiment   float64  `json:"momentumSentiment"`
	OverallSentiment    float64  `json:"overallSentiment"`
	Confidence          float64  `json:"confidence"`
	Trend               Trend    `json:"trend"`
	Strength            Strength `json:"strength"`
}

// StockInput is everything the market analyzer needs for one instrument.
// AvgVolume <= 0 means no average is known.
type StockInput struct {
	Symbol        string    `json:"symbol,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	Volume        float64   `json:"volume"`
	AvgVolume     float64   `json:"avgVolume,omitempty"`
	PriceHistory  []float64 `json:"priceHistory,omitempty"`
}

// HistoryEntry is one tracked analysis.
type HistoryEntry struct {
	Timestamp time.Time           `json:"timestamp"`
	Symbol    string              `json:"symbol,omitempty"`
	Text      string              `json:"text"`
	Sentiment SentimentResult     `json:"sentiment"`
	Stock     *StockSentimentData `json:"stockSentiment,omitempty"`
}

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Stock is a member of the tracked index universe.
type Stock struct {
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Name      string  `json:"name" yaml:"name"`
	Sector    string  `json:"sector" yaml:"sector"`
	Weightage float64 `json:"weightage" yaml:"weightage"`
}

// Quote is a snapshot of one instrument for the current session.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	PreviousClose float64   `json:"previousClose"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	Volume        float64   `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Change is the absolute move since the previous close.
func (q Quote) Change() float64 {
	return q.Price - q.PreviousClose
}

// ChangePercent is the move since the previous close in percent, 0 when the
// previous close is unknown.
func (q Quote) ChangePercent() float64 {
	if q.PreviousClose == 0 {
		return 0
	}
	return (q.Price - q.PreviousClose) / q.PreviousClose * 100
}

// StockQuote joins a universe entry with its latest quote and, when
// computed, its sentiment.
type StockQuote struct {
	Stock
	Price         float64             `json:"price"`
	Change        float64             `json:"change"`
	ChangePercent float64             `json:"changePercent"`
	Volume        float64             `json:"volume"`
	DayHigh       float64             `json:"dayHigh"`
	DayLow        float64             `json:"dayLow"`
	PreviousClose float64             `json:"previousClose"`
	Sentiment     *StockSentimentData `json:"sentiment,omitempty"`
}

func NewStockQuote(s Stock, q Quote) StockQuote {
	return StockQuote{
		Stock:         s,
		Price:         q.Price,
		Change:        q.Change(),
		ChangePercent: q.ChangePercent(),
		Volume:        q.Volume,
		DayHigh:       q.DayHigh,
		DayLow:        q.DayLow,
		PreviousClose: q.PreviousClose,
	}
}

// Mover is the minimal input to aggregate scoring.
type Mover struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"changePercent"`
}

// Aggregate is a market-wide or sector-wide sentiment summary.
type Aggregate struct {
	Label         Label   `json:"label"`
	Score         float64 `json:"score"`
	Confidence    float64 `json:"confidence"`
	Total         int     `json:"total"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	PositiveRatio float64 `json:"positiveRatio"`
	NegativeRatio float64 `json:"negativeRatio"`
	AvgChange     float64 `json:"avgChange"`
}

// SectorSummary groups the universe members of one sector.
type SectorSummary struct {
	Sector         string       `json:"sector"`
	Count          int          `json:"count"`
	TotalWeightage float64      `json:"totalWeightage"`
	AvgChange      float64      `json:"avgChange"`
	AvgPrice       float64      `json:"avgPrice"`
	TotalVolume    float64      `json:"totalVolume"`
	Gainers        int          `json:"gainers"`
	Losers         int          `json:"losers"`
	Unchanged      int          `json:"unchanged"`
	Sentiment      Aggregate    `json:"sentiment"`
	TopStocks      []StockQuote `json:"topStocks"`
}

// NewsItem is a headline with its computed sentiment.
type NewsItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	URL          string          `json:"url"`
	Source       string          `json:"source"`
	PublishedAt  time.Time       `json:"publishedAt"`
	Category     string          `json:"category"`
	Sentiment    SentimentResult `json:"sentiment"`
	Tags         []string        `json:"tags"`
	StockSymbols []string        `json:"stockSymbols"`
}

// Article is a raw headline before analysis.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
	Category    string
	Symbol      string
	Tags        []string
}
