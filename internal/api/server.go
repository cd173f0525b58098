// Package api serves the sentiment engine, quotes and news over JSON HTTP.
package api

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/market"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/news"
	"market-sentiment/internal/sentiment"
)

// Config holds the knobs handlers need beyond their dependencies.
type Config struct {
	ServiceName   string
	Version       string
	DefaultWindow time.Duration // tracker window when ?window is absent
	HistoryDays   int           // candles returned when ?days is absent
}

// Deps are the collaborators a Server routes to. Gatherer defaults to the
// process-wide Prometheus registry.
type Deps struct {
	Market    *market.Service
	News      *news.Service
	Text      interfaces.TextAnalyzer
	Stock     interfaces.MarketAnalyzer
	Tracker   *sentiment.Tracker
	Aggregate *sentiment.AggregateService
	Gatherer  prometheus.Gatherer
	Stream    http.Handler // live updates; /api/stream is not routed when nil
}

type Server struct {
	deps     Deps
	cfg      Config
	validate *validator.Validate
	now      func() time.Time
}

func New(deps Deps, cfg Config) *Server {
	if deps.Aggregate == nil {
		deps.Aggregate = sentiment.NewAggregateService()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = sentiment.DefaultWindow
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = market.DefaultServiceConfig().HistoryDays
	}
	return &Server{
		deps:     deps,
		cfg:      cfg,
		validate: newValidator(),
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so errors match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(CodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &apiError{status: http.StatusMethodNotAllowed, code: CodeMethodNotAllowed, msg: r.Method + " not allowed"})
	})

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(s.deps.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Route("/sentiment", func(r chi.Router) {
			r.Post("/analyze", s.analyzeText)
			r.Post("/stock", s.analyzeStock)
			r.Get("/recent", s.recentSentiment)
			r.Get("/trending", s.trendingSentiment)
		})
		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.listStocks)
			r.Get("/sectors", s.sectors)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Get("/", s.stockQuote)
				r.Get("/history", s.stockHistory)
				r.Get("/sentiment", s.stockSentiment)
				r.Get("/sentiment/trend", s.stockSentimentTrend)
			})
		})
		r.Get("/market/overview", s.marketOverview)
		r.Get("/news", s.listNews)
		if s.deps.Stream != nil {
			r.Method(http.MethodGet, "/stream", s.deps.Stream)
		}
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":      "ok",
		"service":     s.cfg.ServiceName,
		"version":     s.cfg.Version,
		"trackerSize": s.deps.Tracker.Len(),
		"timestamp":   s.now().UTC(),
	})
}
