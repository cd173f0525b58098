package marketobs

import (
	"context"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableProvider wraps a QuoteProvider with logging, tracing and metrics
type observableProvider struct {
	name     string
	provider interfaces.QuoteProvider
}

var _ interfaces.QuoteProvider = (*observableProvider)(nil)

// Wrap wraps a provider; name labels its metrics (static, kite).
func Wrap(name string, p interfaces.QuoteProvider) interfaces.QuoteProvider {
	return &observableProvider{name: name, provider: p}
}

func (op *observableProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpanWith(ctx, "quotes.Quote", "provider", op.name, "symbol", symbol)
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "provider", op.name, "symbol", symbol)

	start := time.Now()
	q, err := op.provider.Quote(ctx, symbol)
	op.observe("quote", start, err)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err, "provider", op.name, "symbol", symbol)
		return types.Quote{}, err
	}

	logger.DebugSkip(ctx, 1, "Quote fetched", "provider", op.name, "symbol", symbol, "price", q.Price)
	return q, nil
}

func (op *observableProvider) History(ctx context.Context, symbol string, days int) ([]types.Candle, error) {
	ctx, span := trace.StartSpanWith(ctx, "quotes.History", "provider", op.name, "symbol", symbol, "days", days)
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching history", "provider", op.name, "symbol", symbol, "days", days)

	start := time.Now()
	candles, err := op.provider.History(ctx, symbol, days)
	op.observe("history", start, err)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch history", err, "provider", op.name, "symbol", symbol, "days", days)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "History fetched", "provider", op.name, "symbol", symbol, "count", len(candles))
	return candles, nil
}

func (op *observableProvider) observe(call string, start time.Time, err error) {
	metrics.ProviderCalls.WithLabelValues(op.name, call, metrics.Status(err)).Inc()
	metrics.ProviderLatency.WithLabelValues(op.name, call).Observe(time.Since(start).Seconds())
}
