package sentiment

import (
	"context"
	"math"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/ta"
	"market-sentiment/internal/types"
)

const (
	priceWeight      = 0.40
	volumeWeight     = 0.20
	volatilityWeight = 0.15
	momentumWeight   = 0.25

	bullishAbove = 6.5
	bearishBelow = 3.5

	momentumLookback = 5
	neutralScore     = 5.0
	varianceScale    = 25.0
	minStockConf     = 0.3
)

// MarketAnalyzer scores a single instrument from its session quote and
// recent closes. It holds no state.
type MarketAnalyzer struct{}

var _ interfaces.MarketAnalyzer = (*MarketAnalyzer)(nil)

func NewMarketAnalyzer() *MarketAnalyzer {
	return &MarketAnalyzer{}
}

func (a *MarketAnalyzer) AnalyzeStock(_ context.Context, in types.StockInput) (types.StockSentimentData, error) {
	if err := validateInput(in); err != nil {
		return types.StockSentimentData{}, err
	}

	changePct := ta.PercentChange(in.PreviousClose, in.Price)
	hasAvg := in.AvgVolume > 0 && !math.IsInf(in.AvgVolume, 0)
	volumeRatio := 0.0
	if hasAvg {
		volumeRatio = in.Volume / in.AvgVolume
	}

	price := clampScore(priceSentiment(changePct))
	volume := neutralScore
	if hasAvg {
		volume = clampScore(volumeSentiment(volumeRatio, changePct))
	}
	volatility := clampScore(volatilitySentiment((in.DayHigh - in.DayLow) / in.PreviousClose * 100))
	momentum, ok := momentumSentiment(in.PriceHistory)
	if ok {
		momentum = clampScore(momentum)
	} else {
		momentum = price
	}

	overall := clampScore(priceWeight*price + volumeWeight*volume +
		volatilityWeight*volatility + momentumWeight*momentum)

	subScores := []float64{price, volume, volatility, momentum}
	confidence := clamp(1-ta.Variance(subScores, len(subScores))/varianceScale, minStockConf, 1)

	return types.StockSentimentData{
		PriceSentiment:      price,
		VolumeSentiment:     volume,
		VolatilitySentiment: volatility,
		MomentumSentiment:   momentum,
		OverallSentiment:    overall,
		Confidence:          confidence,
		Trend:               TrendFor(overall),
		Strength:            strengthFor(changePct, hasAvg, volumeRatio),
	}, nil
}

func validateInput(in types.StockInput) error {
	switch {
	case in.PreviousClose == 0 || !isFinite(in.PreviousClose):
		return &InvalidQuoteError{Symbol: in.Symbol, Field: "previousClose", Value: in.PreviousClose}
	case !isFinite(in.Price):
		return &InvalidQuoteError{Symbol: in.Symbol, Field: "price", Value: in.Price}
	}
	return nil
}

// priceSentiment maps percent change since the previous close onto 0-10.
// The bands are monotonic but not continuous at ±2 and ±5.
func priceSentiment(p float64) float64 {
	switch {
	case p > 5:
		return 9.0 + (p-5)*0.1
	case p > 2:
		return 7.0 + (p-2)*0.5
	case p > 0:
		return 5.5 + p*0.5
	case p > -2:
		return 4.5 + (p+2)*0.5
	case p > -5:
		return 3.0 + (p+2)*0.5
	default:
		return 1.0 + (p+5)*0.1
	}
}

// volumeSentiment rewards heavy volume in the direction of the move.
func volumeSentiment(ratio, changePct float64) float64 {
	up := changePct > 0
	switch {
	case ratio > 2:
		if up {
			return 8.0
		}
		return 2.0
	case ratio > 1.5:
		if up {
			return 7.0
		}
		return 3.0
	case ratio > 1:
		return 5.0
	default:
		return 4.0
	}
}

// volatilitySentiment penalises wide intraday ranges; rangePct is relative
// to the previous close.
func volatilitySentiment(rangePct float64) float64 {
	switch {
	case rangePct > 10:
		return 3.0
	case rangePct > 5:
		return 4.0
	default:
		return 6.0
	}
}

// momentumSentiment looks at the change across the last five closes.
// ok is false when there is not enough usable history.
func momentumSentiment(history []float64) (score float64, ok bool) {
	if len(history) < momentumLookback {
		return 0, false
	}
	recent := history[len(history)-momentumLookback:]
	m := ta.PercentChange(recent[0], recent[len(recent)-1])
	if !isFinite(m) {
		return 0, false
	}
	switch {
	case m > 3:
		return 8.0 + m*0.2, true
	case m > 1:
		return 6.5 + m*0.5, true
	case m > -1:
		return 4.5 + m, true
	case m > -3:
		return 2.5 + (m + 1), true
	default:
		return 1.0 + (m+3)*0.2, true
	}
}

// TrendFor classifies an overall 0-10 score.
func TrendFor(overall float64) types.Trend {
	switch {
	case overall > bullishAbove:
		return types.TrendBullish
	case overall < bearishBelow:
		return types.TrendBearish
	default:
		return types.TrendSideways
	}
}

func strengthFor(changePct float64, hasAvg bool, ratio float64) types.Strength {
	absChange := math.Abs(changePct)
	switch {
	case absChange > 5 || (hasAvg && ratio > 2):
		return types.StrengthStrong
	case absChange > 2 || (hasAvg && ratio > 1.5):
		return types.StrengthModerate
	default:
		return types.StrengthWeak
	}
}

func clampScore(v float64) float64 {
	return clamp(v, 0, 10)
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
