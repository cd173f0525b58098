package newsobs

import (
	"context"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

// observableProvider wraps a NewsProvider with logging, tracing and metrics
type observableProvider struct {
	name     string
	provider interfaces.NewsProvider
}

var _ interfaces.NewsProvider = (*observableProvider)(nil)

// Wrap wraps a provider; name labels its metrics (static, scraper).
func Wrap(name string, p interfaces.NewsProvider) interfaces.NewsProvider {
	return &observableProvider{name: name, provider: p}
}

func (op *observableProvider) Fetch(ctx context.Context, symbol string, limit int) ([]types.Article, error) {
	ctx, span := trace.StartSpanWith(ctx, "news.Fetch", "provider", op.name, "symbol", symbol, "limit", limit)
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching news", "provider", op.name, "symbol", symbol, "limit", limit)

	start := time.Now()
	articles, err := op.provider.Fetch(ctx, symbol, limit)
	metrics.ProviderCalls.WithLabelValues(op.name, "news", metrics.Status(err)).Inc()
	metrics.ProviderLatency.WithLabelValues(op.name, "news").Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch news", err, "provider", op.name, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "News fetched", "provider", op.name, "symbol", symbol, "count", len(articles))
	return articles, nil
}
