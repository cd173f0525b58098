package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/market"
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/stream"
)

func readStream(t *testing.T, conn *websocket.Conn) stream.Update {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var u stream.Update
	require.NoError(t, conn.ReadJSON(&u))
	return u
}

func TestStreamPushesTrackedAnalyses(t *testing.T) {
	hub := stream.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	text := sentiment.NewTextAnalyzer()
	stock := sentiment.NewMarketAnalyzer()
	tracker := sentiment.NewTracker(sentiment.WithClock(fixedNow), sentiment.WithListener(hub.PublishEntry))
	s := New(Deps{
		Market:   market.NewService(market.NewStaticProviderWithClock(fixedNow), stock, testUniverse, market.DefaultServiceConfig()),
		Text:     text,
		Stock:    stock,
		Tracker:  tracker,
		Gatherer: prometheus.NewRegistry(),
		Stream:   hub,
	}, Config{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stream", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, stream.TypeConnection, readStream(t, conn).Type)

	resp, err := http.Post(srv.URL+"/api/sentiment/analyze", "application/json",
		strings.NewReader(`{"text":"Strong rally as profit beats estimates"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u := readStream(t, conn)
	assert.Equal(t, stream.TypeSentiment, u.Type)
	assert.True(t, strings.HasPrefix(u.Message, "positive"))

	resp, err = http.Get(srv.URL + "/api/stocks/TCS/sentiment")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u = readStream(t, conn)
	assert.Equal(t, stream.TypeStock, u.Type)
	assert.Equal(t, "TCS", u.Symbol)
	data, err := json.Marshal(u.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), "overallSentiment")
}

func TestStreamNotRoutedWithoutHub(t *testing.T) {
	env := newTestEnv(t)
	requireError(t, env.do(t, http.MethodGet, "/api/stream", ""), http.StatusNotFound, CodeNotFound)
}
