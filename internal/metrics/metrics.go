package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_recommendation_requests_total",
			Help: "Recommendation requests by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cf_recommendation_duration_seconds",
			Help:    "Time spent generating uncached recommendation lists",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"metric"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_predictions_total",
			Help: "Single rating predictions by availability",
		},
		[]string{"available"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_cache_errors_total",
			Help: "Redis cache failures by operation",
		},
		[]string{"operation"},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cf_snapshot_ratings",
			Help: "Number of ratings in the active snapshot",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cf_snapshot_users",
			Help: "Number of users in the active snapshot",
		},
	)

	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_snapshot_reloads_total",
			Help: "Snapshot rebuilds by result",
		},
		[]string{"result"},
	)

	EvaluationRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cf_evaluation_runs_total",
			Help: "Completed offline evaluation runs",
		},
	)
)
