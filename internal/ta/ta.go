// Package ta holds the small numeric helpers shared by the scoring engine
// and the history endpoint. Window functions look at the trailing n values and
// return NaN when fewer are available.
package ta

import (
	"math"

	"github.com/markcheno/go-talib"
)

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// Mean is the arithmetic mean of all values, NaN for an empty slice.
func Mean(vals []float64) float64 {
	return SMA(vals, len(vals))
}

// Variance is the population variance of the trailing n values.
func Variance(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return s / float64(n)
}

func StdDev(vals []float64, n int) float64 {
	return math.Sqrt(Variance(vals, n))
}

// PercentChange is (to-from)/from*100, NaN when from is zero.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return math.NaN()
	}
	return (to - from) / from * 100
}

// RSI is Wilder's relative strength index at the last close.
func RSI(closes []float64, period int) float64 {
	if period < 2 || len(closes) < period+1 {
		return math.NaN()
	}
	return last(talib.Rsi(closes, period))
}

// Bollinger returns the n-period SMA and the bands k population standard
// deviations either side of it.
func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	if n < 2 || len(closes) < n {
		return math.NaN(), math.NaN(), math.NaN()
	}
	upper, middle, lower := talib.BBands(closes, n, k, k, talib.SMA)
	return last(middle), last(upper), last(lower)
}

// ATR is Wilder's average true range at the last candle.
func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	if period < 2 || len(closes) < period+1 {
		return math.NaN()
	}
	return last(talib.Atr(highs, lows, closes, period))
}

// EMA is the exponential moving average at the last close, seeded with the
// SMA of the first n values.
func EMA(closes []float64, n int) float64 {
	if n < 2 || len(closes) < n {
		return math.NaN()
	}
	return last(talib.Ema(closes, n))
}

// MACD returns the MACD line, its signal line and the histogram at the last close.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist float64) {
	if fast < 2 || slow <= fast || signal < 1 || len(closes) < slow+signal-1 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	m, s, h := talib.Macd(closes, fast, slow, signal)
	return last(m), last(s), last(h)
}

func last(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}
