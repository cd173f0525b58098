package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// QuoteProvider supplies session quotes and daily candles, oldest first.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (types.Quote, error)
	History(ctx context.Context, symbol string, days int) ([]types.Candle, error)
}
