package sentiment

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func scored(score float64) types.SentimentResult {
	return types.SentimentResult{Score: score, Label: types.LabelNeutral, Confidence: 0.5}
}

func TestTrackerEvictsOldest(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 1500; i++ {
		tr.AddSentiment(fmt.Sprintf("entry-%d", i), scored(float64(i)), nil)
	}

	entries := tr.Entries()
	require.Len(t, entries, DefaultTrackerCapacity)
	assert.Equal(t, "entry-500", entries[0].Text)
	assert.Equal(t, "entry-1499", entries[len(entries)-1].Text)
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].Sentiment.Score+1, entries[i].Sentiment.Score)
	}
}

func TestTrackerWithCapacity(t *testing.T) {
	tr := NewTracker(WithCapacity(3))
	for i := 0; i < 5; i++ {
		tr.AddSentiment("x", scored(float64(i)), nil)
	}
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 3, tr.Capacity())
	assert.Equal(t, 2.0, tr.Entries()[0].Sentiment.Score)

	assert.Equal(t, DefaultTrackerCapacity, NewTracker(WithCapacity(0)).Capacity())
}

func TestTrackerConcurrentAdds(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr.AddStockSentiment(fmt.Sprintf("S%d", g), "t", scored(1), &types.StockSentimentData{OverallSentiment: 5})
				_ = tr.RecentSentiment(DefaultWindow)
				_ = tr.TrendingSentiment()
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, DefaultTrackerCapacity, tr.Len())
}

func TestTrackerCopiesStockData(t *testing.T) {
	tr := NewTracker()
	stock := &types.StockSentimentData{OverallSentiment: 7}
	tr.AddSentiment("x", scored(0), stock)
	stock.OverallSentiment = 1

	entries := tr.Entries()
	require.NotNil(t, entries[0].Stock)
	assert.Equal(t, 7.0, entries[0].Stock.OverallSentiment)

	entries[0].Stock.OverallSentiment = 2
	assert.Equal(t, 7.0, tr.Entries()[0].Stock.OverallSentiment)
}

func TestTrackerCopiesKeywords(t *testing.T) {
	tr := NewTracker()
	res := scored(2)
	res.Keywords = []string{"profit", "growth"}
	tr.AddStockSentiment("TCS", "TCS profit growth", res, nil)
	res.Keywords[0] = "loss"

	entries := tr.Entries()
	assert.Equal(t, []string{"profit", "growth"}, entries[0].Sentiment.Keywords)

	entries[0].Sentiment.Keywords[1] = "debt"
	assert.Equal(t, []string{"profit", "growth"}, tr.Entries()[0].Sentiment.Keywords)

	empty := scored(0)
	empty.Keywords = []string{}
	tr.AddSentiment("flat", empty, nil)
	got := tr.Entries()[1].Sentiment.Keywords
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTrackerListener(t *testing.T) {
	clock := newFakeClock()
	var got []types.HistoryEntry
	tr := NewTracker(WithClock(clock.Now), WithListener(func(e types.HistoryEntry) {
		got = append(got, e)
	}), WithListener(nil))

	tr.AddStockSentiment("TCS", "TCS", scored(2), &types.StockSentimentData{OverallSentiment: 7})
	tr.AddSentiment("flat day", scored(0), nil)

	require.Len(t, got, 2)
	assert.Equal(t, "TCS", got[0].Symbol)
	assert.Equal(t, clock.Now(), got[0].Timestamp)
	require.NotNil(t, got[0].Stock)
	assert.Equal(t, 7.0, got[0].Stock.OverallSentiment)
	assert.Nil(t, got[1].Stock)
}

func TestRecentSentimentEmptyWindow(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(WithClock(clock.Now))

	got := tr.RecentSentiment(DefaultWindow)
	assert.Equal(t, types.LabelNeutral, got.Label)
	assert.Zero(t, got.Score)
	assert.Equal(t, 0.5, got.Confidence)

	tr.AddSentiment("old", scored(3), nil)
	clock.Advance(2 * time.Hour)
	got = tr.RecentSentiment(DefaultWindow)
	assert.Equal(t, types.LabelNeutral, got.Label)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestRecentSentimentWindowedAverage(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(WithClock(clock.Now))

	tr.AddSentiment("stale", types.SentimentResult{Score: -10, Confidence: 0.1, Keywords: []string{"crash"}}, nil)
	clock.Advance(90 * time.Minute)
	tr.AddSentiment("a", types.SentimentResult{Score: 1, Confidence: 0.6, Keywords: []string{"profit", "growth"}}, nil)
	clock.Advance(10 * time.Minute)
	tr.AddSentiment("b", types.SentimentResult{Score: 2, Confidence: 0.8, Keywords: []string{"growth"}}, nil)

	got := tr.RecentSentiment(DefaultWindow)
	assert.InDelta(t, 1.5, got.Score, 1e-9)
	assert.InDelta(t, 0.75, got.Comparative, 1e-9)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
	assert.InDelta(t, 1.5, got.Magnitude, 1e-9)
	assert.Equal(t, types.LabelPositive, got.Label)
	assert.Equal(t, []string{"profit", "growth"}, got.Keywords)
}

func TestRecentSentimentLabelCutoff(t *testing.T) {
	tests := []struct {
		score float64
		want  types.Label
	}{
		{0.6, types.LabelPositive},
		{0.5, types.LabelNeutral},
		{-0.5, types.LabelNeutral},
		{-0.6, types.LabelNegative},
	}
	for _, tt := range tests {
		tr := NewTracker()
		tr.AddSentiment("x", scored(tt.score), nil)
		assert.Equal(t, tt.want, tr.RecentSentiment(DefaultWindow).Label, "score %v", tt.score)
	}
}

func TestStockSentimentTrend(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(WithClock(clock.Now))

	_, ok := tr.StockSentimentTrend("", DefaultWindow)
	assert.False(t, ok)

	tr.AddSentiment("text only", scored(1), nil)
	tr.AddStockSentiment("INFY", "", scored(0), &types.StockSentimentData{
		PriceSentiment: 9, OverallSentiment: 8, Confidence: 0.9, Strength: types.StrengthStrong,
	})
	clock.Advance(time.Minute)
	tr.AddStockSentiment("TCS", "", scored(0), &types.StockSentimentData{
		PriceSentiment: 2, OverallSentiment: 2, Confidence: 0.5, Strength: types.StrengthWeak,
	})
	clock.Advance(time.Minute)
	tr.AddStockSentiment("INFY", "", scored(0), &types.StockSentimentData{
		PriceSentiment: 6, OverallSentiment: 6, Confidence: 0.7, Strength: types.StrengthModerate,
	})

	infy, ok := tr.StockSentimentTrend("INFY", DefaultWindow)
	require.True(t, ok)
	assert.InDelta(t, 7.0, infy.OverallSentiment, 1e-9)
	assert.InDelta(t, 0.8, infy.Confidence, 1e-9)
	assert.Equal(t, 6.0, infy.PriceSentiment)
	assert.Equal(t, types.StrengthModerate, infy.Strength)
	assert.Equal(t, types.TrendBullish, infy.Trend)

	all, ok := tr.StockSentimentTrend("", DefaultWindow)
	require.True(t, ok)
	assert.InDelta(t, 16.0/3, all.OverallSentiment, 1e-9)
	assert.Equal(t, types.TrendSideways, all.Trend)

	_, ok = tr.StockSentimentTrend("HDFCBANK", DefaultWindow)
	assert.False(t, ok)

	clock.Advance(2 * time.Hour)
	_, ok = tr.StockSentimentTrend("INFY", DefaultWindow)
	assert.False(t, ok)
}

func TestTrendingSentiment(t *testing.T) {
	fill := func(older, recent []float64) *Tracker {
		tr := NewTracker()
		for _, s := range older {
			tr.AddSentiment("o", scored(s), nil)
		}
		for _, s := range recent {
			tr.AddSentiment("r", scored(s), nil)
		}
		return tr
	}
	repeat := func(v float64, n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	assert.Equal(t, types.DirectionStable, fill(nil, repeat(5, 9)).TrendingSentiment())
	assert.Equal(t, types.DirectionStable, fill(nil, repeat(5, 10)).TrendingSentiment())
	assert.Equal(t, types.DirectionImproving, fill(repeat(0, 10), repeat(1, 10)).TrendingSentiment())
	assert.Equal(t, types.DirectionDeclining, fill(repeat(1, 10), repeat(0, 10)).TrendingSentiment())
	assert.Equal(t, types.DirectionStable, fill(repeat(0, 10), repeat(0.2, 10)).TrendingSentiment())
	// only the ten entries before the latest ten count as the baseline
	assert.Equal(t, types.DirectionStable, fill(append(repeat(-50, 5), repeat(1, 10)...), repeat(1, 10)).TrendingSentiment())
	assert.Equal(t, types.DirectionImproving, fill(repeat(0, 3), repeat(1, 10)).TrendingSentiment())
}
