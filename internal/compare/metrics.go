package compare

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// assemblyDuration tracks results-assembly time by outcome state.
	assemblyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compare_assembly_duration_seconds",
		Help:    "Time taken to assemble comparison results by outcome",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"outcome"})

	// fetchFailures counts per-product fetch failures tolerated during assembly.
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_product_fetch_failures_total",
		Help: "Total per-product fetch failures dropped from comparison results",
	})

	// submissions counts Submit outcomes.
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_submissions_total",
		Help: "Total comparison submissions by result",
	}, []string{"result"})
)

// RecordSubmission tracks one Submit call outcome for the /metrics endpoint
func RecordSubmission(err error) {
	if err != nil {
		submissions.WithLabelValues("rejected").Inc()
		return
	}
	submissions.WithLabelValues("accepted").Inc()
}
