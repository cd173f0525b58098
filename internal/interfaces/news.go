package interfaces

import (
	"context"

	"market-sentiment/internal/types"
)

// NewsProvider fetches raw headlines. An empty symbol means general market news.
type NewsProvider interface {
	Fetch(ctx context.Context, symbol string, limit int) ([]types.Article, error)
}
