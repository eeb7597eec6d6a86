package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	ConversationTurnsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbutler_conversation_turns_total",
			Help: "Total number of conversation turns by state before the turn",
		},
		[]string{"state"},
	)

	TagLookupsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbutler_tag_lookups_total",
			Help: "Vocabulary lookups by outcome (match, empty, unavailable)",
		},
		[]string{"outcome"},
	)

	MatchScore = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "barbutler_match_score",
			Help:    "Similarity score of returned vocabulary matches",
			Buckets: prometheus.LinearBuckets(-1, 0.1, 21),
		},
	)

	RecommendationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbutler_recommendations_total",
			Help: "Recommendation attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	HTTPRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbutler_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barbutler_http_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	WebsocketConnections = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "barbutler_websocket_connections",
			Help: "Open websocket conversations",
		},
	)

	// 0 closed, 1 half-open, 2 open
	BreakerState = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barbutler_breaker_state",
			Help: "Circuit breaker state per external target",
		},
		[]string{"target"},
	)

	ExternalCallLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barbutler_external_latency_ms",
			Help:    "Latency of calls to external services in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"target"},
	)
)

type MetricsConfig struct {
	EnableProcess bool
}

var (
	Config   MetricsConfig
	initOnce sync.Once
)

// Initialize makes the private registry the default gatherer. Only the first
// call has an effect.
func Initialize(cfg MetricsConfig) {
	initOnce.Do(func() { initialize(cfg) })
}

func initialize(cfg MetricsConfig) {
	Config = cfg
	if cfg.EnableProcess {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func ObserveExternalCall(target string, start time.Time) {
	ExternalCallLatency.WithLabelValues(target).Observe(float64(time.Since(start).Milliseconds()))
}
