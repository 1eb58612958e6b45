package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_recommendations_total",
			Help: "Count of price recommendations computed, by decision kind.",
		},
		[]string{"decision"},
	)

	RowsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_rows_saved_total",
		Help: "Count of room pricing rows written by recommendation saves.",
	})

	OverridesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_overrides_total",
			Help: "Count of manual override operations by action.",
		},
		[]string{"action"},
	)

	GenerateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_generate_duration_seconds",
		Help:    "Time spent generating a hotel's recommendations.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(RecommendationsTotal, RowsSavedTotal, OverridesTotal, GenerateDuration)
}
