package api

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"market-sentiment/internal/types"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005))
	assert.Equal(t, -2.35, round2(-2.345))
	assert.Equal(t, 7.0, round2(7))
	assert.Zero(t, round2(math.NaN()))
	assert.Zero(t, round2(math.Inf(1)))
}

func TestOptional2(t *testing.T) {
	assert.Nil(t, optional2(math.NaN()))
	v := optional2(3.14159)
	if assert.NotNil(t, v) {
		assert.Equal(t, 3.14, *v)
	}
}

func TestRoundQuoteDoesNotMutateInput(t *testing.T) {
	data := types.StockSentimentData{OverallSentiment: 6.666}
	q := types.StockQuote{Price: 10.129, Sentiment: &data}

	out := roundQuote(q)
	assert.Equal(t, 10.13, out.Price)
	assert.Equal(t, 6.67, out.Sentiment.OverallSentiment)
	assert.Equal(t, 6.666, data.OverallSentiment)
}
