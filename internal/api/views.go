package api

import (
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/types"
)

// SentimentDetails carries the four sub-scores of a market analysis.
type SentimentDetails struct {
	PriceSentiment      float64 `json:"priceSentiment"`
	VolumeSentiment     float64 `json:"volumeSentiment"`
	VolatilitySentiment float64 `json:"volatilitySentiment"`
	MomentumSentiment   float64 `json:"momentumSentiment"`
}

// StockSentimentView is how a market analysis is rendered: label, score and
// confidence like a text result, plus trend, strength and the sub-scores.
type StockSentimentView struct {
	Label      types.Label      `json:"label"`
	Score      float64          `json:"score"`
	Confidence float64          `json:"confidence"`
	Trend      types.Trend      `json:"trend"`
	Strength   types.Strength   `json:"strength"`
	Details    SentimentDetails `json:"details"`
}

// QuoteView is a quote whose sentiment, when present, is a StockSentimentView.
type QuoteView struct {
	types.StockQuote
	Sentiment *StockSentimentView `json:"sentiment,omitempty"`
}

type sectorSummaryView struct {
	types.SectorSummary
	TopStocks []QuoteView `json:"topStocks"`
}

func stockView(d types.StockSentimentData) StockSentimentView {
	label := sentiment.LabelFor(d.OverallSentiment)
	d = roundStock(d)
	return StockSentimentView{
		Label:      label,
		Score:      d.OverallSentiment,
		Confidence: d.Confidence,
		Trend:      d.Trend,
		Strength:   d.Strength,
		Details: SentimentDetails{
			PriceSentiment:      d.PriceSentiment,
			VolumeSentiment:     d.VolumeSentiment,
			VolatilitySentiment: d.VolatilitySentiment,
			MomentumSentiment:   d.MomentumSentiment,
		},
	}
}

func quoteView(q types.StockQuote) QuoteView {
	q = roundQuote(q)
	v := QuoteView{StockQuote: q}
	if q.Sentiment != nil {
		s := stockView(*q.Sentiment)
		v.Sentiment = &s
	}
	return v
}

func quoteViews(qs []types.StockQuote) []QuoteView {
	out := make([]QuoteView, len(qs))
	for i, q := range qs {
		out[i] = quoteView(q)
	}
	return out
}

func summaryView(s types.SectorSummary) sectorSummaryView {
	s = roundSector(s)
	return sectorSummaryView{SectorSummary: s, TopStocks: quoteViews(s.TopStocks)}
}
