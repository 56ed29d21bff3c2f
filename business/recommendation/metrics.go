package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecomputeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_recompute_total",
			Help: "Count of recommendation recomputes by mode and outcome.",
		},
		[]string{"mode", "status"},
	)

	InvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_invalidations_total",
			Help: "Count of invalidation operations by scope.",
		},
		[]string{"scope"},
	)

	StrategyFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_strategy_failures_total",
			Help: "Count of isolated per-strategy computation failures.",
		},
		[]string{"strategy"},
	)

	PurgedRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_purged_rows_total",
			Help: "Count of inactive recommendation rows removed by retention cleanup.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RecomputeTotal,
		InvalidationsTotal,
		StrategyFailuresTotal,
		PurgedRowsTotal,
	)
}
