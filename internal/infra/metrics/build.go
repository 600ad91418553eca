package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(buildLatency, buildFallbackTotal) }

var buildLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lesson_build_seconds",
		Help:    "Lesson builder call latency, labeled by provider and success.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
	},
	[]string{"provider", "success"},
)

var buildFallbackTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lesson_build_fallback_total",
		Help: "Builder failures replaced with the fixed fallback artifact.",
	},
)

func ObserveBuild(provider string, d time.Duration, ok bool) {
	success := "false"
	if ok {
		success = "true"
	}
	buildLatency.WithLabelValues(provider, success).Observe(d.Seconds())
}

func IncBuildFallback() {
	buildFallbackTotal.Inc()
}
