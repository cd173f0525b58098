package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) types.SentimentResult
}

type MarketAnalyzer interface {
	AnalyzeStock(ctx context.Context, in types.StockInput) (types.StockSentimentData, error)
}
