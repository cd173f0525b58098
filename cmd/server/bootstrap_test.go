package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/store"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "STATIC", cfg.Quotes.Source)
	assert.Equal(t, 1000, cfg.Tracker.Capacity)
	assert.NotEmpty(t, cfg.Universe)
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quotes:\n  source: PAPER\n"), 0o644))

	_, err := loadConfig(context.Background(), path)
	assert.Error(t, err)
}

func TestInitializeNews(t *testing.T) {
	cfg := store.Default()

	primary, fallback := initializeNews(context.Background(), cfg)
	assert.Nil(t, primary)
	assert.NotNil(t, fallback)

	cfg.News.Source = "SCRAPE"
	primary, fallback = initializeNews(context.Background(), cfg)
	assert.NotNil(t, primary)
	assert.NotNil(t, fallback)
}

func TestBuildAppServes(t *testing.T) {
	a, err := buildApp(context.Background(), store.Default())
	require.NoError(t, err)
	h := a.handler.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "market-sentiment", body["service"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Positive(t, a.tracker.Len())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentiment_tracker_entries")
}
