package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("SENTIMENT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := loadConfig(ctx, path)
	if err != nil {
		log.Fatal(err)
	}
	initializeTracer(cfg)

	a, err := buildApp(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build server", err)
		os.Exit(1)
	}
	a.startBackground(ctx)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.handler.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server started",
			"addr", cfg.Server.Addr,
			"quotes", cfg.Quotes.Source,
			"news", cfg.News.Source,
			"universe", len(cfg.Universe),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.ErrorWithErr(ctx, "Server error", err)
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Graceful shutdown failed", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Tracer shutdown failed", "error", err.Error())
	}
	logger.Info(shutdownCtx, "Stopped", "tracked_entries", a.tracker.Len())
}
