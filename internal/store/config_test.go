package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "market-sentiment", cfg.Service.Name)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "STATIC", cfg.Quotes.Source)
	assert.Equal(t, "STATIC", cfg.News.Source)
	assert.Equal(t, 10, cfg.Quotes.Concurrency)
	assert.Equal(t, 1000, cfg.Tracker.Capacity)
	assert.Equal(t, 60, cfg.Tracker.WindowMinutes)
	assert.Len(t, cfg.Universe, len(DefaultUniverse()))
	assert.Equal(t, int64(300), int64(cfg.QuoteCacheTTL().Seconds()))
	assert.Equal(t, 10.0, cfg.NewsCacheTTL().Minutes())
}

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
server:
  addr: ":9090"
quotes:
  source: static
  concurrency: 4
news:
  source: scrape
  max_articles: 5
tracker:
  capacity: 50
universe:
  - symbol: TCS
    name: Tata Consultancy Services Ltd
    sector: IT
    weightage: 4.56
`))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "STATIC", cfg.Quotes.Source)
	assert.Equal(t, "SCRAPE", cfg.News.Source)
	assert.Equal(t, 4, cfg.Quotes.Concurrency)
	assert.Equal(t, 5, cfg.News.MaxArticles)
	assert.Equal(t, 50, cfg.Tracker.Capacity)
	require.Len(t, cfg.Universe, 1)
	assert.Equal(t, "IT", cfg.Universe[0].Sector)
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv("SENTIMENT_SERVER_ADDR", ":7070")
	t.Setenv("SENTIMENT_TRACKER_CAPACITY", "25")
	t.Setenv("SENTIMENT_NEWS_SOURCE", "scrape")

	cfg, err := ParseConfig([]byte("server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Tracker.Capacity)
	assert.Equal(t, "SCRAPE", cfg.News.Source)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"bad quote source", "quotes:\n  source: CSV\n", "invalid quotes.source"},
		{"bad news source", "news:\n  source: RSS\n", "invalid news.source"},
		{"live without credentials", "quotes:\n  source: LIVE\n", "KITE_API_KEY"},
		{"negative capacity", "tracker:\n  capacity: -1\n", "tracker.capacity"},
		{"short history", "quotes:\n  history_days: 3\n", "history_days"},
		{"duplicate symbol", "universe:\n  - symbol: TCS\n  - symbol: TCS\n", "duplicate universe symbol"},
		{"empty symbol", "universe:\n  - name: x\n", "empty symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLiveWithCredentials(t *testing.T) {
	t.Setenv("KITE_API_KEY", "key")
	t.Setenv("KITE_ACCESS_TOKEN", "token")

	cfg, err := ParseConfig([]byte("quotes:\n  source: LIVE\n"))
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.Kite.APIKey)
	assert.Equal(t, "token", cfg.Kite.AccessToken)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":1234\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Addr)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultUniverse(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range DefaultUniverse() {
		assert.False(t, seen[s.Symbol], s.Symbol)
		seen[s.Symbol] = true
		assert.NotEmpty(t, s.Sector, s.Symbol)
		assert.Greater(t, s.Weightage, 0.0, s.Symbol)
	}
	assert.True(t, seen["RELIANCE"])
	assert.True(t, seen["HDFCBANK"])
}
