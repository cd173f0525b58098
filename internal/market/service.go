package market

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"market-sentiment/internal/cache"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/ta"
	"market-sentiment/internal/types"
)

// ServiceConfig configures quote fan-out and caching
type ServiceConfig struct {
	HistoryDays     int           // Daily candles fed to momentum and volume averages
	AvgVolumeWindow int           // Sessions averaged for the volume ratio
	Concurrency     int           // Parallel provider calls when loading the universe
	CacheTTL        time.Duration // How long a quote or history stays cached
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		HistoryDays:     30,
		AvgVolumeWindow: 20,
		Concurrency:     10,
		CacheTTL:        5 * time.Minute,
	}
}

// Service serves quotes and stock sentiment for a fixed universe.
type Service struct {
	provider interfaces.QuoteProvider
	analyzer interfaces.MarketAnalyzer
	universe []types.Stock
	bySymbol map[string]types.Stock
	cfg      ServiceConfig

	quotes  *cache.Cache[types.Quote]
	history *cache.Cache[[]types.Candle]
}

func NewService(provider interfaces.QuoteProvider, analyzer interfaces.MarketAnalyzer, universe []types.Stock, cfg ServiceConfig) *Service {
	def := DefaultServiceConfig()
	if cfg.HistoryDays < 1 {
		cfg.HistoryDays = def.HistoryDays
	}
	if cfg.AvgVolumeWindow < 1 {
		cfg.AvgVolumeWindow = def.AvgVolumeWindow
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}

	bySymbol := make(map[string]types.Stock, len(universe))
	for _, s := range universe {
		bySymbol[s.Symbol] = s
	}
	return &Service{
		provider: provider,
		analyzer: analyzer,
		universe: universe,
		bySymbol: bySymbol,
		cfg:      cfg,
		quotes:   cache.New[types.Quote]("quotes", cfg.CacheTTL),
		history:  cache.New[[]types.Candle]("history", cfg.CacheTTL),
	}
}

func (s *Service) Universe() []types.Stock {
	out := make([]types.Stock, len(s.universe))
	copy(out, s.universe)
	return out
}

// Lookup finds a universe member, ignoring case.
func (s *Service) Lookup(symbol string) (types.Stock, bool) {
	st, ok := s.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return st, ok
}

func (s *Service) stock(symbol string) (types.Stock, error) {
	st, ok := s.Lookup(symbol)
	if !ok {
		return types.Stock{}, fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
	}
	return st, nil
}

// Quote returns the cached or freshly fetched quote joined with the universe entry.
func (s *Service) Quote(ctx context.Context, symbol string) (types.StockQuote, error) {
	st, err := s.stock(symbol)
	if err != nil {
		return types.StockQuote{}, err
	}
	q, err := s.quote(ctx, st.Symbol)
	if err != nil {
		return types.StockQuote{}, err
	}
	return types.NewStockQuote(st, q), nil
}

func (s *Service) quote(ctx context.Context, symbol string) (types.Quote, error) {
	if q, ok := s.quotes.Get(symbol); ok {
		return q, nil
	}
	q, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		return types.Quote{}, err
	}
	s.quotes.Set(symbol, q)
	return q, nil
}

// History returns up to days daily candles, oldest first. days <= 0 uses
// the configured history depth.
func (s *Service) History(ctx context.Context, symbol string, days int) ([]types.Candle, error) {
	st, err := s.stock(symbol)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.cfg.HistoryDays
	}

	key := fmt.Sprintf("%s:%d", st.Symbol, days)
	if cs, ok := s.history.Get(key); ok {
		return cs, nil
	}
	cs, err := s.provider.History(ctx, st.Symbol, days)
	if err != nil {
		return nil, err
	}
	s.history.Set(key, cs)
	return cs, nil
}

// Input assembles the analyzer input for symbol from its quote and history.
// A failed history fetch degrades to an input without history or average volume.
func (s *Service) Input(ctx context.Context, symbol string) (types.StockInput, types.StockQuote, error) {
	sq, err := s.Quote(ctx, symbol)
	if err != nil {
		return types.StockInput{}, types.StockQuote{}, err
	}

	in := types.StockInput{
		Symbol:        sq.Symbol,
		Price:         sq.Price,
		PreviousClose: sq.PreviousClose,
		DayHigh:       sq.DayHigh,
		DayLow:        sq.DayLow,
		Volume:        sq.Volume,
	}

	candles, err := s.History(ctx, sq.Symbol, s.cfg.HistoryDays)
	if err != nil {
		logger.Warn(ctx, "History unavailable, scoring without momentum", "symbol", sq.Symbol, "error", err)
		return in, sq, nil
	}

	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}
	in.PriceHistory = closes
	in.AvgVolume = averageVolume(candles, s.cfg.AvgVolumeWindow)
	return in, sq, nil
}

// averageVolume averages the sessions before the latest candle. It returns 0
// when there is no prior session.
func averageVolume(candles []types.Candle, window int) float64 {
	if len(candles) < 2 {
		return 0
	}
	prior := candles[:len(candles)-1]
	vols := make([]float64, 0, len(prior))
	for _, c := range prior {
		vols = append(vols, c.Vol)
	}
	n := window
	if n > len(vols) {
		n = len(vols)
	}
	avg := ta.SMA(vols, n)
	if math.IsNaN(avg) {
		return 0
	}
	return avg
}

// Sentiment scores symbol and returns the quote with its sentiment attached.
func (s *Service) Sentiment(ctx context.Context, symbol string) (types.StockQuote, error) {
	in, sq, err := s.Input(ctx, symbol)
	if err != nil {
		return types.StockQuote{}, err
	}
	data, err := s.analyzer.AnalyzeStock(ctx, in)
	if err != nil {
		return types.StockQuote{}, err
	}
	sq.Sentiment = &data
	return sq, nil
}

// AllQuotes loads the whole universe in parallel. Symbols that fail are logged
// and left out; the result keeps universe order.
func (s *Service) AllQuotes(ctx context.Context, withSentiment bool) ([]types.StockQuote, error) {
	op := logger.StartOperation(ctx, "market.AllQuotes", "symbols", len(s.universe), "with_sentiment", withSentiment)
	ctx = op.GetContext()

	results := make([]*types.StockQuote, len(s.universe))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, st := range s.universe {
		g.Go(func() error {
			var sq types.StockQuote
			var err error
			if withSentiment {
				sq, err = s.Sentiment(gctx, st.Symbol)
			} else {
				sq, err = s.Quote(gctx, st.Symbol)
			}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn(gctx, "Skipping symbol", "symbol", st.Symbol, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = &sq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		op.EndWithError(err)
		return nil, err
	}

	out := make([]types.StockQuote, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 && failed > 0 {
		err := fmt.Errorf("all %d quote fetches failed", failed)
		op.EndWithError(err)
		return nil, err
	}
	op.End("loaded", len(out), "failed", failed)
	return out, nil
}

func (s *Service) CacheStats() []cache.Stats {
	return []cache.Stats{s.quotes.Stats(), s.history.Stats()}
}

// RunCacheCleanup evicts expired cache entries until ctx is done.
func (s *Service) RunCacheCleanup(ctx context.Context, interval time.Duration) {
	go s.history.RunCleanup(ctx, interval)
	s.quotes.RunCleanup(ctx, interval)
}

// TopGainers returns up to n quotes with a positive change, largest first.
func TopGainers(quotes []types.StockQuote, n int) []types.StockQuote {
	out := filterQuotes(quotes, func(q types.StockQuote) bool { return q.ChangePercent > 0 })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePercent > out[j].ChangePercent })
	return limit(out, n)
}

// TopLosers returns up to n quotes with a negative change, largest fall first.
func TopLosers(quotes []types.StockQuote, n int) []types.StockQuote {
	out := filterQuotes(quotes, func(q types.StockQuote) bool { return q.ChangePercent < 0 })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePercent < out[j].ChangePercent })
	return limit(out, n)
}

// MostActive returns up to n quotes by traded volume.
func MostActive(quotes []types.StockQuote, n int) []types.StockQuote {
	out := filterQuotes(quotes, func(types.StockQuote) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Volume > out[j].Volume })
	return limit(out, n)
}

// BySector returns the quotes in sector, ignoring case.
func BySector(quotes []types.StockQuote, sector string) []types.StockQuote {
	return filterQuotes(quotes, func(q types.StockQuote) bool { return strings.EqualFold(q.Sector, sector) })
}

// Movers reduces quotes to the aggregate input.
func Movers(quotes []types.StockQuote) []types.Mover {
	out := make([]types.Mover, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, types.Mover{Symbol: q.Symbol, ChangePercent: q.ChangePercent})
	}
	return out
}

func filterQuotes(quotes []types.StockQuote, keep func(types.StockQuote) bool) []types.StockQuote {
	out := make([]types.StockQuote, 0, len(quotes))
	for _, q := range quotes {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func limit(quotes []types.StockQuote, n int) []types.StockQuote {
	if n >= 0 && len(quotes) > n {
		return quotes[:n]
	}
	return quotes
}
