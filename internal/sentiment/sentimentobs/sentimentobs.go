package sentimentobs

import (
	"context"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

type observableText struct {
	analyzer interfaces.TextAnalyzer
}

var _ interfaces.TextAnalyzer = (*observableText)(nil)

func WrapText(a interfaces.TextAnalyzer) interfaces.TextAnalyzer {
	return &observableText{analyzer: a}
}

func (o *observableText) Analyze(ctx context.Context, text string) types.SentimentResult {
	ctx, span := trace.StartSpanWith(ctx, "sentiment.Analyze", "chars", len(text))
	defer span.End()

	start := time.Now()
	res := o.analyzer.Analyze(ctx, text)
	elapsed := time.Since(start)

	metrics.AnalysisDuration.WithLabelValues("text").Observe(elapsed.Seconds())
	metrics.Analyses.WithLabelValues("text", string(res.Label)).Inc()

	logger.DebugSkip(ctx, 1, "Text analyzed",
		"chars", len(text),
		"label", res.Label,
		"score", res.Score,
		"keywords", len(res.Keywords),
		"duration_us", elapsed.Microseconds(),
	)
	return res
}

type observableMarket struct {
	analyzer interfaces.MarketAnalyzer
}

var _ interfaces.MarketAnalyzer = (*observableMarket)(nil)

func WrapMarket(a interfaces.MarketAnalyzer) interfaces.MarketAnalyzer {
	return &observableMarket{analyzer: a}
}

func (o *observableMarket) AnalyzeStock(ctx context.Context, in types.StockInput) (types.StockSentimentData, error) {
	ctx, span := trace.StartSpanWith(ctx, "sentiment.AnalyzeStock", "symbol", in.Symbol)
	defer span.End()

	start := time.Now()
	res, err := o.analyzer.AnalyzeStock(ctx, in)
	elapsed := time.Since(start)
	metrics.AnalysisDuration.WithLabelValues("stock").Observe(elapsed.Seconds())

	if err != nil {
		metrics.AnalysisErrors.WithLabelValues("stock").Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Stock analysis rejected", err,
			"symbol", in.Symbol,
			"price", in.Price,
			"previous_close", in.PreviousClose,
		)
		return res, err
	}

	metrics.Analyses.WithLabelValues("stock", string(res.Trend)).Inc()
	logger.InfoSkip(ctx, 1, "Stock analyzed",
		"symbol", in.Symbol,
		"overall", res.OverallSentiment,
		"trend", res.Trend,
		"strength", res.Strength,
		"confidence", res.Confidence,
		"history_points", len(in.PriceHistory),
		"duration_us", elapsed.Microseconds(),
	)
	return res, nil
}
