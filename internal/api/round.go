package api

import (
	"math"

	"github.com/shopspring/decimal"

	"market-sentiment/internal/types"
)

// round2 rounds half away from zero to two places. Non-finite values become 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// optional2 is round2 for values that may legitimately be undefined.
func optional2(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round2(v)
	return &r
}

func roundResult(r types.SentimentResult) types.SentimentResult {
	r.Score = round2(r.Score)
	r.Comparative = round2(r.Comparative)
	r.Confidence = round2(r.Confidence)
	r.Magnitude = round2(r.Magnitude)
	return r
}

func roundStock(d types.StockSentimentData) types.StockSentimentData {
	d.PriceSentiment = round2(d.PriceSentiment)
	d.VolumeSentiment = round2(d.VolumeSentiment)
	d.VolatilitySentiment = round2(d.VolatilitySentiment)
	d.MomentumSentiment = round2(d.MomentumSentiment)
	d.OverallSentiment = round2(d.OverallSentiment)
	d.Confidence = round2(d.Confidence)
	return d
}

func roundQuote(q types.StockQuote) types.StockQuote {
	q.Price = round2(q.Price)
	q.Change = round2(q.Change)
	q.ChangePercent = round2(q.ChangePercent)
	q.DayHigh = round2(q.DayHigh)
	q.DayLow = round2(q.DayLow)
	q.PreviousClose = round2(q.PreviousClose)
	if q.Sentiment != nil {
		d := roundStock(*q.Sentiment)
		q.Sentiment = &d
	}
	return q
}

func roundQuotes(qs []types.StockQuote) []types.StockQuote {
	out := make([]types.StockQuote, len(qs))
	for i, q := range qs {
		out[i] = roundQuote(q)
	}
	return out
}

func roundAggregate(a types.Aggregate) types.Aggregate {
	a.Score = round2(a.Score)
	a.Confidence = round2(a.Confidence)
	a.PositiveRatio = round2(a.PositiveRatio)
	a.NegativeRatio = round2(a.NegativeRatio)
	a.AvgChange = round2(a.AvgChange)
	return a
}

func roundSector(s types.SectorSummary) types.SectorSummary {
	s.TotalWeightage = round2(s.TotalWeightage)
	s.AvgChange = round2(s.AvgChange)
	s.AvgPrice = round2(s.AvgPrice)
	s.Sentiment = roundAggregate(s.Sentiment)
	s.TopStocks = roundQuotes(s.TopStocks)
	return s
}

func roundNews(items []types.NewsItem) []types.NewsItem {
	out := make([]types.NewsItem, len(items))
	for i, it := range items {
		it.Sentiment = roundResult(it.Sentiment)
		out[i] = it
	}
	return out
}
