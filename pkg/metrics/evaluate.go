package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the evaluate HTTP handler
	EvaluateLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "screentime_evaluate_latency_seconds",
		Help:    "Latency of the screen time evaluate handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of evaluate requests by response status
	EvaluateRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screentime_evaluate_requests_total",
		Help: "Total number of screen time evaluate requests",
	}, []string{"status"})

	ReferenceRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "screentime_reference_rows",
		Help: "Usable rows in the loaded reference dataset",
	})
)

func Init() {
	prometheus.MustRegister(
		EvaluateLatency,
		EvaluateRequests,
		ReferenceRows,
	)
}
