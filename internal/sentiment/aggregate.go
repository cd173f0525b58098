package sentiment

import (
	"math"
	"sort"

	"market-sentiment/internal/types"
)

// Thresholds parameterise how a set of movers is folded into one label.
// A positive label needs AvgChange > MinAvgChange and PositiveRatio > MinRatio;
// negative is the mirror image.
type Thresholds struct {
	MinAvgChange float64
	MinRatio     float64
	PositiveBase float64
	NegativeBase float64
	TrendSlope   float64
	NeutralSlope float64
}

var (
	MarketThresholds = Thresholds{
		MinAvgChange: 0.5,
		MinRatio:     0.6,
		PositiveBase: 7.5,
		NegativeBase: 2.5,
		TrendSlope:   0.5,
		NeutralSlope: 0.3,
	}
	SectorThresholds = Thresholds{
		MinAvgChange: 1.0,
		MinRatio:     0.5,
		PositiveBase: 7.0,
		NegativeBase: 3.0,
		TrendSlope:   0.3,
		NeutralSlope: 0.2,
	}
)

const (
	topStocksPerSector = 3
	trendConfBase      = 0.8
	trendConfPerRatio  = 0.2
	neutralConfBase    = 0.6
	neutralConfPerMove = 0.2
)

// AggregateService folds per-instrument moves into market and sector summaries.
type AggregateService struct {
	market Thresholds
	sector Thresholds
}

func NewAggregateService() *AggregateService {
	return &AggregateService{market: MarketThresholds, sector: SectorThresholds}
}

// NewAggregateServiceWithThresholds overrides the market and sector presets.
func NewAggregateServiceWithThresholds(market, sector Thresholds) *AggregateService {
	return &AggregateService{market: market, sector: sector}
}

func (s *AggregateService) Market(movers []types.Mover) types.Aggregate {
	return Aggregate(movers, s.market)
}

// Sectors groups quotes by sector, sorted by total index weightage.
func (s *AggregateService) Sectors(quotes []types.StockQuote) []types.SectorSummary {
	groups := make(map[string][]types.StockQuote)
	order := make([]string, 0)
	for _, q := range quotes {
		if _, ok := groups[q.Sector]; !ok {
			order = append(order, q.Sector)
		}
		groups[q.Sector] = append(groups[q.Sector], q)
	}

	out := make([]types.SectorSummary, 0, len(order))
	for _, sector := range order {
		out = append(out, s.summarizeSector(sector, groups[sector]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalWeightage != out[j].TotalWeightage {
			return out[i].TotalWeightage > out[j].TotalWeightage
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

func (s *AggregateService) summarizeSector(sector string, quotes []types.StockQuote) types.SectorSummary {
	sum := types.SectorSummary{Sector: sector, Count: len(quotes)}
	movers := make([]types.Mover, 0, len(quotes))
	var priceSum float64
	for _, q := range quotes {
		sum.TotalWeightage += q.Weightage
		sum.TotalVolume += q.Volume
		priceSum += q.Price
		movers = append(movers, types.Mover{Symbol: q.Symbol, ChangePercent: q.ChangePercent})
	}
	agg := Aggregate(movers, s.sector)
	sum.Sentiment = agg
	sum.AvgChange = agg.AvgChange
	sum.Gainers = agg.Positive
	sum.Losers = agg.Negative
	sum.Unchanged = agg.Neutral
	if len(quotes) > 0 {
		sum.AvgPrice = priceSum / float64(len(quotes))
	}

	top := make([]types.StockQuote, len(quotes))
	copy(top, quotes)
	sort.SliceStable(top, func(i, j int) bool {
		return math.Abs(top[i].ChangePercent) > math.Abs(top[j].ChangePercent)
	})
	if len(top) > topStocksPerSector {
		top = top[:topStocksPerSector]
	}
	sum.TopStocks = top
	return sum
}

// Aggregate counts and averages movers. An empty set is neutral with score 5.
func Aggregate(movers []types.Mover, th Thresholds) types.Aggregate {
	agg := types.Aggregate{Total: len(movers)}
	if len(movers) == 0 {
		agg.Label = types.LabelNeutral
		agg.Score = neutralScore
		agg.Confidence = emptyConfidence
		return agg
	}

	var changeSum float64
	for _, m := range movers {
		switch {
		case m.ChangePercent > 0:
			agg.Positive++
		case m.ChangePercent < 0:
			agg.Negative++
		default:
			agg.Neutral++
		}
		changeSum += m.ChangePercent
	}

	n := float64(len(movers))
	avg := changeSum / n
	agg.AvgChange = avg
	agg.PositiveRatio = float64(agg.Positive) / n
	agg.NegativeRatio = float64(agg.Negative) / n

	switch {
	case avg > th.MinAvgChange && agg.PositiveRatio > th.MinRatio:
		agg.Label = types.LabelPositive
		agg.Score = th.PositiveBase + avg*th.TrendSlope
		agg.Confidence = trendConfBase + agg.PositiveRatio*trendConfPerRatio
	case avg < -th.MinAvgChange && agg.NegativeRatio > th.MinRatio:
		agg.Label = types.LabelNegative
		agg.Score = th.NegativeBase - math.Abs(avg)*th.TrendSlope
		agg.Confidence = trendConfBase + agg.NegativeRatio*trendConfPerRatio
	default:
		agg.Label = types.LabelNeutral
		agg.Score = neutralScore + avg*th.NeutralSlope
		agg.Confidence = neutralConfBase + math.Abs(avg)*neutralConfPerMove
	}
	agg.Score = clampScore(agg.Score)
	agg.Confidence = clamp(agg.Confidence, minConfidence, 1)
	return agg
}
