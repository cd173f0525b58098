package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"golang.org/x/time/rate"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/types"
)

// kiteClient is the subset of the Kite Connect client the provider needs.
type kiteClient interface {
	GetQuote(instruments ...string) (kiteconnect.Quote, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

// KiteProvider reads quotes and daily candles from Zerodha Kite Connect.
// Calls are throttled by a shared limiter since Kite enforces per-second quotas.
type KiteProvider struct {
	client   kiteClient
	exchange string
	limiter  *rate.Limiter
	now      func() time.Time

	mu     sync.RWMutex
	tokens map[string]int
}

var _ interfaces.QuoteProvider = (*KiteProvider)(nil)

func NewKiteProvider(apiKey, accessToken, exchange string, perSecond float64) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return newKiteProvider(kc, exchange, perSecond)
}

func newKiteProvider(client kiteClient, exchange string, perSecond float64) *KiteProvider {
	if exchange == "" {
		exchange = "NSE"
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &KiteProvider{
		client:   client,
		exchange: exchange,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		now:      time.Now,
		tokens:   make(map[string]int),
	}
}

func (p *KiteProvider) instrument(symbol string) string {
	return p.exchange + ":" + symbol
}

func (p *KiteProvider) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return types.Quote{}, err
	}

	key := p.instrument(symbol)
	quotes, err := p.client.GetQuote(key)
	if err != nil {
		return types.Quote{}, fmt.Errorf("kite quote %s: %w", key, err)
	}
	q, ok := quotes[key]
	if !ok {
		return types.Quote{}, fmt.Errorf("kite quote %s: %w", key, ErrUnknownSymbol)
	}

	p.mu.Lock()
	p.tokens[symbol] = q.InstrumentToken
	p.mu.Unlock()

	ts := q.Timestamp.Time
	if ts.IsZero() {
		ts = p.now()
	}
	// Kite reports the previous session close as ohlc.close
	return types.Quote{
		Symbol:        symbol,
		Price:         q.LastPrice,
		Open:          q.OHLC.Open,
		PreviousClose: q.OHLC.Close,
		DayHigh:       q.OHLC.High,
		DayLow:        q.OHLC.Low,
		Volume:        float64(q.Volume),
		Timestamp:     ts,
	}, nil
}

func (p *KiteProvider) History(ctx context.Context, symbol string, days int) ([]types.Candle, error) {
	token, err := p.token(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	to := p.now()
	// calendar days; weekends and holidays have no candles
	from := to.AddDate(0, 0, -days*2)
	data, err := p.client.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite history %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	if len(candles) > days {
		candles = candles[len(candles)-days:]
	}
	return candles, nil
}

// token resolves the instrument token, fetching a quote when it is not yet known.
func (p *KiteProvider) token(ctx context.Context, symbol string) (int, error) {
	p.mu.RLock()
	token, ok := p.tokens[symbol]
	p.mu.RUnlock()
	if ok {
		return token, nil
	}
	if _, err := p.Quote(ctx, symbol); err != nil {
		return 0, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tokens[symbol], nil
}
