package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
}

var testUniverse = []types.Stock{
	{Symbol: "RELIANCE", Name: "Reliance Industries", Sector: "Energy", Weightage: 10},
	{Symbol: "TCS", Name: "Tata Consultancy Services", Sector: "IT", Weightage: 4},
}

func TestStaticMarketNews(t *testing.T) {
	p := NewStaticProviderWithClock(testUniverse, fixedNow)

	articles, err := p.Fetch(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, articles, len(marketHeadlines))

	for i, a := range articles {
		assert.Equal(t, newsSources[i%len(newsSources)], a.Source)
		assert.Equal(t, fixedNow().Add(-time.Duration(i)*2*time.Hour), a.PublishedAt)
		assert.Empty(t, a.Symbol)
	}
	assert.Equal(t, "https://example.com/news/0", articles[0].URL)
	assert.Equal(t, "market", articles[0].Category)
	assert.Equal(t, []string{"nifty", "sensex", "indian market", "stocks"}, articles[0].Tags)
}

func TestStaticStockNews(t *testing.T) {
	p := NewStaticProviderWithClock(testUniverse, fixedNow)

	articles, err := p.Fetch(context.Background(), "tcs", 0)
	require.NoError(t, err)
	require.Len(t, articles, len(stockHeadlines))

	first := articles[0]
	assert.Equal(t, "Tata Consultancy Services Reports Strong Q3 Results, Beats Estimates", first.Title)
	assert.Contains(t, first.Description, "Tata Consultancy Services announced")
	assert.Equal(t, "https://example.com/news/TCS/0", first.URL)
	assert.Equal(t, "TCS", first.Symbol)
	assert.Equal(t, keywordsFor("TCS"), first.Tags)
	assert.NotContains(t, articles[2].Description, "%s")
	assert.Equal(t, fixedNow().Add(-9*time.Hour), articles[3].PublishedAt)
}

func TestStaticUnknownSymbolUsesTicker(t *testing.T) {
	p := NewStaticProviderWithClock(testUniverse, fixedNow)

	articles, err := p.Fetch(context.Background(), "ZOMATO", 3)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "ZOMATO Announces New Strategic Initiatives", articles[1].Title)
}

func TestStaticRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticProvider(testUniverse).Fetch(ctx, "", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
