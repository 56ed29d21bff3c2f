package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Duration of one full batch pass over eligible students
	WorkerCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_worker_cycle_duration_seconds",
		Help:    "Duration of one recommendation batch cycle",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// Batch cycles by outcome
	WorkerCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_worker_cycles_total",
		Help: "Total recommendation batch cycles",
	}, []string{"status"})

	// Users touched by the last cycles, by outcome
	WorkerUsersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_worker_users_total",
		Help: "Users processed by the recommendation batch worker",
	}, []string{"status"})
)

func Init() {
	prometheus.MustRegister(
		WorkerCycleDuration,
		WorkerCyclesTotal,
		WorkerUsersTotal,
	)
}
