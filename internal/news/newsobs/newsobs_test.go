package newsobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/news"
	"market-sentiment/internal/types"
)

func TestWrapPassesThrough(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) }
	universe := []types.Stock{{Symbol: "INFY", Name: "Infosys"}}
	inner := news.NewStaticProviderWithClock(universe, now)
	wrapped := Wrap("static", inner)

	want, err := inner.Fetch(context.Background(), "INFY", 3)
	require.NoError(t, err)
	got, err := wrapped.Fetch(context.Background(), "INFY", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWrapPropagatesErrors(t *testing.T) {
	wrapped := Wrap("static", news.NewStaticProvider(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := wrapped.Fetch(ctx, "", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
