package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analyzer metrics
	Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_analyses_total",
			Help: "Total number of sentiment analyses",
		},
		[]string{"analyzer", "label"}, // analyzer: text|stock
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_analysis_errors_total",
			Help: "Total number of rejected analyses",
		},
		[]string{"analyzer"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_analysis_duration_seconds",
			Help:    "Analysis duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"analyzer"},
	)

	// Provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_provider_calls_total",
			Help: "Total number of quote and news provider calls",
		},
		[]string{"provider", "op", "status"}, // status: success|error
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_provider_latency_seconds",
			Help:    "Provider call latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "op"},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"cache", "result"}, // result: hit|miss
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Stream metrics
	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_stream_clients",
			Help: "Connected live update clients",
		},
	)

	StreamUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_stream_updates_total",
			Help: "Live updates by type and outcome",
		},
		[]string{"type", "result"}, // result: queued|dropped
	)

	// Market metrics
	MarketScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_market_score",
			Help: "Latest market-wide sentiment score (0-10)",
		},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		Analyses,
		AnalysisErrors,
		AnalysisDuration,
		ProviderCalls,
		ProviderLatency,
		CacheLookups,
		HTTPRequests,
		HTTPDuration,
		StreamClients,
		StreamUpdates,
		MarketScore,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// RegisterTrackerSize exposes the current history size as a gauge.
func RegisterTrackerSize(reg prometheus.Registerer, size func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "sentiment_tracker_entries",
			Help: "Number of entries held by the sentiment tracker",
		},
		func() float64 { return float64(size()) },
	))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
