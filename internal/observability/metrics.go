// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Aggregation metrics
	AggregationRunsTotal *prometheus.CounterVec
	AggregationDuration  prometheus.Histogram
	EnginesAggregated    prometheus.Counter
	EnginesSkipped       prometheus.Counter

	// Promotion metrics
	PromotionsTotal   *prometheus.CounterVec
	DemotionsTotal    *prometheus.CounterVec
	CandidatesFound   *prometheus.GaugeVec
	RedFlagsFound     *prometheus.GaugeVec
	UniverseSize      *prometheus.GaugeVec
	ClassifyErrors    prometheus.Counter
	DataQualityIssues *prometheus.CounterVec

	// Scoring metrics
	VariantsRanked prometheus.Gauge

	// Health metrics
	LastSuccessfulAggregation prometheus.Gauge
	StreamSubscribers         prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "perf_governor"
	}

	return &Metrics{
		AggregationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "runs_total",
			Help:      "Total number of aggregation runs by status",
		}, []string{"status"}),
		AggregationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "duration_seconds",
			Help:      "Duration of aggregation runs",
			Buckets:   prometheus.DefBuckets,
		}),
		EnginesAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "engines_total",
			Help:      "Total number of engines aggregated successfully",
		}),
		EnginesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "engines_skipped_total",
			Help:      "Total number of engines skipped due to fetch failures",
		}),

		PromotionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "promotions_total",
			Help:      "Total number of tickers promoted by horizon",
		}, []string{"horizon"}),
		DemotionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "demotions_total",
			Help:      "Total number of tickers demoted by horizon",
		}, []string{"horizon"}),
		CandidatesFound: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "candidates",
			Help:      "Promotion candidates found in last classification by horizon",
		}, []string{"horizon"}),
		RedFlagsFound: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "red_flags",
			Help:      "Red flags found in last classification by horizon",
		}, []string{"horizon"}),
		UniverseSize: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "universe_size",
			Help:      "Current universe membership count by horizon",
		}, []string{"horizon"}),
		ClassifyErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "promotion",
			Name:      "classify_errors_total",
			Help:      "Total number of failed classification runs",
		}),
		DataQualityIssues: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "data_quality",
			Name:      "issues_total",
			Help:      "Total number of corrected upstream data issues by kind",
		}, []string{"kind"}),

		VariantsRanked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "variants_ranked",
			Help:      "Variants ranked in the last scoring run",
		}),

		LastSuccessfulAggregation: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_aggregation_timestamp",
			Help:      "Unix timestamp of last successful aggregation run",
		}),
		StreamSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "stream_subscribers",
			Help:      "Connected websocket dashboard subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAggregationRun records one aggregation run.
func RecordAggregationRun(status string, durationSeconds float64, aggregated, skipped int) {
	DefaultMetrics.AggregationRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.AggregationDuration.Observe(durationSeconds)
	DefaultMetrics.EnginesAggregated.Add(float64(aggregated))
	DefaultMetrics.EnginesSkipped.Add(float64(skipped))
}

// RecordPromotion increments the promotion counter for a horizon.
func RecordPromotion(horizon string) {
	DefaultMetrics.PromotionsTotal.WithLabelValues(horizon).Inc()
}

// RecordDemotion increments the demotion counter for a horizon.
func RecordDemotion(horizon string) {
	DefaultMetrics.DemotionsTotal.WithLabelValues(horizon).Inc()
}

// RecordClassification updates the classification gauges for a horizon.
func RecordClassification(horizon string, candidates, redFlags, universeSize int) {
	DefaultMetrics.CandidatesFound.WithLabelValues(horizon).Set(float64(candidates))
	DefaultMetrics.RedFlagsFound.WithLabelValues(horizon).Set(float64(redFlags))
	DefaultMetrics.UniverseSize.WithLabelValues(horizon).Set(float64(universeSize))
}

// RecordDataQualityIssue records a corrected upstream data issue.
func RecordDataQualityIssue(kind string) {
	DefaultMetrics.DataQualityIssues.WithLabelValues(kind).Inc()
}
