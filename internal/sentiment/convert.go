package sentiment

import (
	"math"

	"market-sentiment/internal/types"
)

// LabelFor maps an overall 0-10 score onto the text labels using the same
// cut-offs as the trend.
func LabelFor(overall float64) types.Label {
	switch {
	case overall > bullishAbove:
		return types.LabelPositive
	case overall < bearishBelow:
		return types.LabelNegative
	default:
		return types.LabelNeutral
	}
}

// ResultFromStock restates a stock analysis on the text scale so that it can
// be tracked next to headlines. The score is centred on the neutral 5.
func ResultFromStock(d types.StockSentimentData) types.SentimentResult {
	score := d.OverallSentiment - neutralScore
	return types.SentimentResult{
		Score:       score,
		Comparative: score / neutralScore,
		Label:       LabelFor(d.OverallSentiment),
		Confidence:  d.Confidence,
		Magnitude:   math.Abs(score),
		Keywords:    []string{},
	}
}
