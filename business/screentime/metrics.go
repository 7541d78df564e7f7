package screentime

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screentime_evaluations_total",
			Help: "Count of successful evaluations by cluster id and mode.",
		},
		[]string{"cluster_id", "mode"},
	)

	EvaluationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screentime_evaluation_errors_total",
			Help: "Count of failed evaluations by error kind.",
		},
		[]string{"kind"},
	)

	EvaluationCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "screentime_evaluation_cache_hits_total",
		Help: "Evaluations answered from the result cache.",
	})
)

func init() {
	prometheus.MustRegister(EvaluationsTotal, EvaluationErrorsTotal, EvaluationCacheHitsTotal)
}
