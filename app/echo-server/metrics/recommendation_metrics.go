package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ServeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_serve_latency_seconds",
		Help:    "Latency of the recommendation serving endpoint",
		Buckets: prometheus.DefBuckets,
	})

	ServeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_serve_total",
		Help: "Total recommendation lists served",
	})
)

func Init() {
	prometheus.MustRegister(ServeDuration, ServeTotal)
}
