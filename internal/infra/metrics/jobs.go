package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(jobsProcessedTotal, jobDurationSeconds, jobsEnqueuedTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lesson_jobs_processed_total",
		Help: "Total number of lesson jobs processed, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'error'
)

var jobDurationSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "lesson_job_duration_seconds",
		Help:    "End-to-end lesson job duration.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	},
)

var jobsEnqueuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lesson_jobs_enqueued_total",
		Help: "Total number of lesson jobs accepted by the gateway.",
	},
)

func IncJobProcessed(status string) {
	jobsProcessedTotal.WithLabelValues(status).Inc()
}

func ObserveJobDuration(d time.Duration) {
	jobDurationSeconds.Observe(d.Seconds())
}

func IncJobEnqueued() {
	jobsEnqueuedTotal.Inc()
}
