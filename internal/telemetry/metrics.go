package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsStarted      = prometheus.NewCounter(prometheus.CounterOpts{Name: "outfit_jobs_started_total", Help: "Pipeline executions started"})
	JobsSucceeded    = prometheus.NewCounter(prometheus.CounterOpts{Name: "outfit_jobs_succeeded_total", Help: "Jobs that reached done"})
	JobsFailed       = prometheus.NewCounter(prometheus.CounterOpts{Name: "outfit_jobs_failed_total", Help: "Jobs that reached error"})
	ClassifyCalls    = prometheus.NewCounter(prometheus.CounterOpts{Name: "classify_calls_total", Help: "Archetype classification calls"})
	ClassifyFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "classify_failures_total", Help: "Classification calls that failed"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsStarted,
			JobsSucceeded,
			JobsFailed,
			ClassifyCalls,
			ClassifyFailures,
		)
	})
	return promhttp.Handler()
}
