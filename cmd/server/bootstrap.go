package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"market-sentiment/internal/api"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/market"
	"market-sentiment/internal/market/marketobs"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/news"
	"market-sentiment/internal/news/newsobs"
	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/sentiment/sentimentobs"
	"market-sentiment/internal/store"
	"market-sentiment/internal/stream"
	"market-sentiment/internal/trace"
)

const cleanupInterval = 5 * time.Minute

// app holds everything main needs to serve and shut down.
type app struct {
	handler *api.Server
	market  *market.Service
	news    *news.Service
	tracker *sentiment.Tracker
	hub     *stream.Hub
}

// initializeSystem loads the environment and starts the logger
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initializeTracer starts the tracer; failures only disable tracing.
func initializeTracer(cfg *store.Config) {
	if err := trace.Init(cfg.Service.Name, cfg.Service.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
}

// loadConfig reads path, falling back to built-in defaults when it is missing.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn(ctx, "Config file not found, using defaults", "path", path)
		return store.ParseConfig(nil)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeQuotes picks the quote provider and wraps it with observability
func initializeQuotes(ctx context.Context, cfg *store.Config) interfaces.QuoteProvider {
	if cfg.Quotes.Source == "LIVE" {
		logger.Info(ctx, "Using LIVE quotes from Kite", "exchange", cfg.Quotes.Exchange)
		return marketobs.Wrap("kite", market.NewKiteProvider(
			cfg.Kite.APIKey,
			cfg.Kite.AccessToken,
			cfg.Quotes.Exchange,
			cfg.Quotes.RateLimitPerSecond,
		))
	}
	logger.Info(ctx, "Using STATIC generated quotes")
	return marketobs.Wrap("static", market.NewStaticProvider())
}

// initializeNews picks the news provider; the static feed always backs it up.
func initializeNews(ctx context.Context, cfg *store.Config) (primary, fallback interfaces.NewsProvider) {
	fallback = newsobs.Wrap("static", news.NewStaticProvider(cfg.Universe))
	if cfg.News.Source == "SCRAPE" {
		logger.Info(ctx, "Scraping news from configured sources", "timeout", cfg.ScraperTimeout().String())
		return newsobs.Wrap("scraper", news.NewScraper(cfg.ScraperTimeout())), fallback
	}
	logger.Info(ctx, "Using STATIC sample news")
	return nil, fallback
}

// initializeMetrics builds the registry served on /metrics.
func initializeMetrics(tracker *sentiment.Tracker) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := metrics.RegisterTrackerSize(reg, tracker.Len); err != nil {
		return nil, fmt.Errorf("failed to register tracker gauge: %w", err)
	}
	return reg, nil
}

// buildApp wires providers, analyzers, services and the HTTP handler.
func buildApp(ctx context.Context, cfg *store.Config) (*app, error) {
	text := sentimentobs.WrapText(sentiment.NewTextAnalyzer())
	stock := sentimentobs.WrapMarket(sentiment.NewMarketAnalyzer())
	hub := stream.NewHub()
	tracker := sentiment.NewTracker(
		sentiment.WithCapacity(cfg.Tracker.Capacity),
		sentiment.WithListener(hub.PublishEntry),
	)

	marketSvc := market.NewService(initializeQuotes(ctx, cfg), stock, cfg.Universe, market.ServiceConfig{
		HistoryDays:     cfg.Quotes.HistoryDays,
		AvgVolumeWindow: cfg.Quotes.AvgVolumeWindow,
		Concurrency:     cfg.Quotes.Concurrency,
		CacheTTL:        cfg.QuoteCacheTTL(),
	})

	primary, fallback := initializeNews(ctx, cfg)
	newsSvc := news.NewService(primary, fallback, text, tracker, news.ServiceConfig{
		MaxArticles: cfg.News.MaxArticles,
		CacheTTL:    cfg.NewsCacheTTL(),
	})

	reg, err := initializeMetrics(tracker)
	if err != nil {
		return nil, err
	}

	srv := api.New(api.Deps{
		Market:   marketSvc,
		News:     newsSvc,
		Text:     text,
		Stock:    stock,
		Tracker:  tracker,
		Gatherer: reg,
		Stream:   hub,
	}, api.Config{
		ServiceName:   cfg.Service.Name,
		Version:       cfg.Service.Version,
		DefaultWindow: cfg.TrackerWindow(),
		HistoryDays:   cfg.Quotes.HistoryDays,
	})

	return &app{handler: srv, market: marketSvc, news: newsSvc, tracker: tracker, hub: hub}, nil
}

// startBackground runs the stream hub and cache eviction until ctx is cancelled.
func (a *app) startBackground(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.market.RunCacheCleanup(ctx, cleanupInterval)
	go a.news.RunCacheCleanup(ctx, cleanupInterval)
}
