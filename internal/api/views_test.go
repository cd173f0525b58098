package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

func TestStockView(t *testing.T) {
	v := stockView(types.StockSentimentData{
		PriceSentiment:      8.5,
		VolumeSentiment:     7,
		VolatilitySentiment: 4,
		MomentumSentiment:   9,
		OverallSentiment:    7.6543,
		Confidence:          0.848125,
		Trend:               types.TrendBullish,
		Strength:            types.StrengthModerate,
	})
	assert.Equal(t, StockSentimentView{
		Label:      types.LabelPositive,
		Score:      7.65,
		Confidence: 0.85,
		Trend:      types.TrendBullish,
		Strength:   types.StrengthModerate,
		Details: SentimentDetails{
			PriceSentiment:      8.5,
			VolumeSentiment:     7,
			VolatilitySentiment: 4,
			MomentumSentiment:   9,
		},
	}, v)

	assert.Equal(t, types.LabelNegative, stockView(types.StockSentimentData{OverallSentiment: 3.2}).Label)
	assert.Equal(t, types.LabelNeutral, stockView(types.StockSentimentData{OverallSentiment: 5}).Label)
}

func TestQuoteViewJSON(t *testing.T) {
	data := types.StockSentimentData{OverallSentiment: 2.5, Trend: types.TrendBearish}
	q := types.StockQuote{Stock: types.Stock{Symbol: "TCS"}, Price: 10.129, Sentiment: &data}

	out, err := json.Marshal(quoteView(q))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "TCS", m["symbol"])
	assert.Equal(t, 10.13, m["price"])
	s, ok := m["sentiment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "negative", s["label"])
	assert.Equal(t, 2.5, s["score"])
	assert.NotContains(t, s, "overallSentiment")

	out, err = json.Marshal(quoteView(types.StockQuote{Stock: types.Stock{Symbol: "INFY"}}))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sentiment")
}
