package market

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

type fakeKite struct {
	quoteJSON   string
	quoteErr    error
	history     []kiteconnect.HistoricalData
	quoteCalls  int
	histToken   int
	histInteval string
}

func (f *fakeKite) GetQuote(instruments ...string) (kiteconnect.Quote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	var q kiteconnect.Quote
	if err := json.Unmarshal([]byte(f.quoteJSON), &q); err != nil {
		return nil, err
	}
	return q, nil
}

func (f *fakeKite) GetHistoricalData(token int, interval string, from, to time.Time, continuous, oi bool) ([]kiteconnect.HistoricalData, error) {
	f.histToken = token
	f.histInteval = interval
	return f.history, nil
}

const tcsQuote = `{"NSE:TCS": {
	"instrument_token": 2953217,
	"last_price": 3850.5,
	"volume": 1200000,
	"ohlc": {"open": 3800, "high": 3870, "low": 3790, "close": 3810}
}}`

func TestKiteProviderQuote(t *testing.T) {
	fk := &fakeKite{quoteJSON: tcsQuote}
	p := newKiteProvider(fk, "NSE", 100)
	p.now = fixedClock

	q, err := p.Quote(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Equal(t, "TCS", q.Symbol)
	assert.Equal(t, 3850.5, q.Price)
	assert.Equal(t, 3810.0, q.PreviousClose)
	assert.Equal(t, 3870.0, q.DayHigh)
	assert.Equal(t, 3790.0, q.DayLow)
	assert.Equal(t, 1200000.0, q.Volume)
	assert.Equal(t, fixedClock(), q.Timestamp)
}

func TestKiteProviderUnknownSymbol(t *testing.T) {
	p := newKiteProvider(&fakeKite{quoteJSON: tcsQuote}, "NSE", 100)
	_, err := p.Quote(context.Background(), "INFY")
	assert.True(t, errors.Is(err, ErrUnknownSymbol))

	p = newKiteProvider(&fakeKite{quoteErr: errors.New("token expired")}, "NSE", 100)
	_, err = p.Quote(context.Background(), "TCS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestKiteProviderHistoryResolvesToken(t *testing.T) {
	fk := &fakeKite{
		quoteJSON: tcsQuote,
		history: []kiteconnect.HistoricalData{
			{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
			{Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
			{Open: 2, High: 3, Low: 1.5, Close: 2.5, Volume: 300},
		},
	}
	p := newKiteProvider(fk, "", 100)

	cs, err := p.History(context.Background(), "TCS", 2)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, 2.0, cs[0].Close)
	assert.Equal(t, 300.0, cs[1].Vol)
	assert.Equal(t, 2953217, fk.histToken)
	assert.Equal(t, "day", fk.histInteval)
	assert.Equal(t, 1, fk.quoteCalls)

	_, err = p.History(context.Background(), "TCS", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, fk.quoteCalls)
}

func TestKiteProviderRespectsContext(t *testing.T) {
	p := newKiteProvider(&fakeKite{quoteJSON: tcsQuote}, "NSE", 0.001)
	_, err := p.Quote(context.Background(), "TCS")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Quote(ctx, "TCS")
	assert.Error(t, err)
}
