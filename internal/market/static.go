package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/types"
)

const (
	staticMaxDays  = 365
	staticBaseVol  = 2_000_000
	staticDriftPct = 1.8
)

// StaticProvider generates a deterministic daily series per symbol and day,
// used when no live feed is configured and in tests.
type StaticProvider struct {
	now func() time.Time
}

var _ interfaces.QuoteProvider = (*StaticProvider)(nil)

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{now: time.Now}
}

func NewStaticProviderWithClock(now func() time.Time) *StaticProvider {
	return &StaticProvider{now: now}
}

func (p *StaticProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	candles, err := p.History(ctx, symbol, 2)
	if err != nil {
		return types.Quote{}, err
	}
	prev, last := candles[0], candles[1]
	return types.Quote{
		Symbol:        symbol,
		Price:         last.Close,
		Open:          last.Open,
		PreviousClose: prev.Close,
		DayHigh:       last.High,
		DayLow:        last.Low,
		Volume:        last.Vol,
		Timestamp:     time.Unix(last.Ts, 0).UTC(),
	}, nil
}

// History returns days candles, oldest first, the last one being today's session.
func (p *StaticProvider) History(ctx context.Context, symbol string, days int) ([]types.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, ErrUnknownSymbol
	}
	if days < 1 {
		days = 1
	}
	if days > staticMaxDays {
		days = staticMaxDays
	}

	today := p.now().UTC().Truncate(24 * time.Hour)
	series := staticSeries(symbol, today)
	return series[len(series)-days:], nil
}

// staticSeries always builds the full year so that a shorter request is a
// suffix of a longer one.
func staticSeries(symbol string, today time.Time) []types.Candle {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	sum := h.Sum64()
	rng := rand.New(rand.NewSource(int64(sum) ^ today.Unix()))

	price := 100 + float64(sum%4000)
	cs := make([]types.Candle, 0, staticMaxDays)
	for i := staticMaxDays - 1; i >= 0; i-- {
		open := price
		move := (rng.Float64()*2 - 1) * staticDriftPct / 100
		closePx := round2(open * (1 + move))
		high := round2(math.Max(open, closePx) * (1 + rng.Float64()*0.01))
		low := round2(math.Min(open, closePx) * (1 - rng.Float64()*0.01))
		vol := math.Round(staticBaseVol * (0.5 + rng.Float64()*1.5))
		cs = append(cs, types.Candle{
			Ts:    today.AddDate(0, 0, -i).Unix(),
			Open:  round2(open),
			High:  high,
			Low:   low,
			Close: closePx,
			Vol:   vol,
		})
		price = closePx
	}
	return cs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
