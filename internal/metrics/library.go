package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recompute outcomes.
const (
	OutcomeApplied    = "applied"
	OutcomeSuperseded = "superseded"
)

// Library Prometheus metrics.
var (
	RecomputeCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "albumdex",
			Name:      "recompute_cycles_total",
			Help:      "Completed match recomputations by outcome",
		},
		[]string{"outcome"}, // "applied" / "superseded"
	)

	RecomputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "albumdex",
			Name:      "recompute_duration_seconds",
			Help:      "Time spent matching and sorting one recomputation",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	MatchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "albumdex",
			Name:      "match_failures_total",
			Help:      "Records that could not be tested against a predicate",
		},
	)

	CollectionSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "albumdex",
			Name:      "collection_albums",
			Help:      "Albums in the current collection",
		},
	)

	MatchedAlbums = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "albumdex",
			Name:      "matched_albums",
			Help:      "Albums in the last applied match set",
		},
	)

	PreferenceWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "albumdex",
			Name:      "preference_writes_total",
			Help:      "Preference and snapshot writes by kind and status",
		},
		[]string{"kind", "status"}, // kind: "preferences" / "snapshot"; status: "ok" / "error"
	)
)

var libMetricsRegistered bool

// RegisterLibraryMetrics registers the library metrics. Must be called once from main.
func RegisterLibraryMetrics() {
	if libMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecomputeCyclesTotal)
	prometheus.MustRegister(RecomputeDuration)
	prometheus.MustRegister(MatchFailuresTotal)
	prometheus.MustRegister(CollectionSize)
	prometheus.MustRegister(MatchedAlbums)
	prometheus.MustRegister(PreferenceWritesTotal)
	libMetricsRegistered = true
}
