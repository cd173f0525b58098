package sentiment

import (
	"math"
	"slices"
	"sync"
	"time"

	"market-sentiment/internal/types"
)

const (
	DefaultTrackerCapacity = 1000
	DefaultWindow          = 60 * time.Minute

	trendingSpan      = 10
	trendingThreshold = 0.3
	recentLabelCutoff = 0.5
	emptyConfidence   = 0.5
)

// Tracker keeps a bounded, time-ordered history of analyses. The oldest
// entries are dropped once capacity is reached. Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	entries  []types.HistoryEntry
	capacity int
	now      func() time.Time
	onAdd    []func(types.HistoryEntry)
}

type TrackerOption func(*Tracker)

// WithCapacity sets the maximum number of retained entries. Values <= 0 keep the default.
func WithCapacity(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithClock replaces time.Now, used for timestamps and windows.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithListener registers fn to be called with every recorded entry. fn runs
// on the recording goroutine after the lock is released and must not block.
func WithListener(fn func(types.HistoryEntry)) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.onAdd = append(t.onAdd, fn)
		}
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		capacity: DefaultTrackerCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.entries = make([]types.HistoryEntry, 0, t.capacity)
	return t
}

// AddSentiment records an analysis that is not tied to an instrument.
func (t *Tracker) AddSentiment(text string, result types.SentimentResult, stock *types.StockSentimentData) {
	t.AddStockSentiment("", text, result, stock)
}

// AddStockSentiment records an analysis for symbol.
func (t *Tracker) AddStockSentiment(symbol, text string, result types.SentimentResult, stock *types.StockSentimentData) {
	entry := cloneEntry(types.HistoryEntry{
		Symbol:    symbol,
		Text:      text,
		Sentiment: result,
		Stock:     stock,
	})

	t.mu.Lock()
	entry.Timestamp = t.now()
	t.entries = append(t.entries, entry)
	if over := len(t.entries) - t.capacity; over > 0 {
		t.entries = t.entries[over:]
	}
	t.mu.Unlock()

	for _, fn := range t.onAdd {
		fn(cloneEntry(entry))
	}
}

// cloneEntry copies the parts of an entry that share memory with its source.
func cloneEntry(e types.HistoryEntry) types.HistoryEntry {
	e.Sentiment.Keywords = slices.Clone(e.Sentiment.Keywords)
	if e.Stock != nil {
		s := *e.Stock
		e.Stock = &s
	}
	return e
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Tracker) Capacity() int {
	return t.capacity
}

// Entries returns a copy of the history, oldest first.
func (t *Tracker) Entries() []types.HistoryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.HistoryEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// since copies the entries newer than now-window.
func (t *Tracker) since(window time.Duration) []types.HistoryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := t.now().Add(-window)
	out := make([]types.HistoryEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// RecentSentiment averages the text sentiment recorded within window.
func (t *Tracker) RecentSentiment(window time.Duration) types.SentimentResult {
	recent := t.since(window)
	if len(recent) == 0 {
		return types.SentimentResult{
			Label:      types.LabelNeutral,
			Confidence: emptyConfidence,
			Keywords:   []string{},
		}
	}

	var scoreSum, confSum float64
	seen := make(map[string]bool)
	keywords := make([]string, 0)
	for _, e := range recent {
		scoreSum += e.Sentiment.Score
		confSum += e.Sentiment.Confidence
		for _, k := range e.Sentiment.Keywords {
			if !seen[k] {
				seen[k] = true
				keywords = append(keywords, k)
			}
		}
	}

	n := float64(len(recent))
	avg := scoreSum / n
	label := types.LabelNeutral
	switch {
	case avg > recentLabelCutoff:
		label = types.LabelPositive
	case avg < -recentLabelCutoff:
		label = types.LabelNegative
	}

	return types.SentimentResult{
		Score:       avg,
		Comparative: avg / n,
		Label:       label,
		Confidence:  confSum / n,
		Magnitude:   math.Abs(avg),
		Keywords:    keywords,
	}
}

// StockSentimentTrend summarises the stock analyses recorded within window.
// An empty symbol matches every entry. The overall score and confidence are
// window averages; the sub-scores and strength are those of the latest entry.
func (t *Tracker) StockSentimentTrend(symbol string, window time.Duration) (types.StockSentimentData, bool) {
	var matched []types.StockSentimentData
	for _, e := range t.since(window) {
		if e.Stock == nil || (symbol != "" && e.Symbol != symbol) {
			continue
		}
		matched = append(matched, *e.Stock)
	}
	if len(matched) == 0 {
		return types.StockSentimentData{}, false
	}

	var overallSum, confSum float64
	for _, s := range matched {
		overallSum += s.OverallSentiment
		confSum += s.Confidence
	}
	n := float64(len(matched))
	avgOverall := overallSum / n

	out := matched[len(matched)-1]
	out.OverallSentiment = avgOverall
	out.Confidence = confSum / n
	out.Trend = TrendFor(avgOverall)
	return out, true
}

// TrendingSentiment compares the mean score of the last ten entries with the
// ten before them.
func (t *Tracker) TrendingSentiment() types.Direction {
	entries := t.Entries()
	n := len(entries)
	if n < trendingSpan {
		return types.DirectionStable
	}
	olderStart := n - 2*trendingSpan
	if olderStart < 0 {
		olderStart = 0
	}
	older := entries[olderStart : n-trendingSpan]
	if len(older) == 0 {
		return types.DirectionStable
	}
	diff := meanScore(entries[n-trendingSpan:]) - meanScore(older)
	switch {
	case diff > trendingThreshold:
		return types.DirectionImproving
	case diff < -trendingThreshold:
		return types.DirectionDeclining
	default:
		return types.DirectionStable
	}
}

func meanScore(entries []types.HistoryEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Sentiment.Score
	}
	return sum / float64(len(entries))
}
