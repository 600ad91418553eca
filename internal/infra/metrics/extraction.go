package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(extractionSeconds, ocrDegradedTotal, placeholderTotal) }

var extractionSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lesson_extraction_seconds",
		Help:    "Text extraction duration, labeled by source kind.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	},
	[]string{"kind"}, // 'pdf', 'image'
)

var ocrDegradedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lesson_ocr_degraded_total",
		Help: "OCR calls that degraded to empty text, labeled by reason.",
	},
	[]string{"reason"}, // 'unavailable', 'error'
)

var placeholderTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lesson_extraction_placeholder_total",
		Help: "Extractions that yielded no usable text and fell back to the placeholder.",
	},
)

func ObserveExtraction(kind string, d time.Duration) {
	extractionSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

func IncOCRDegraded(reason string) {
	ocrDegradedTotal.WithLabelValues(reason).Inc()
}

func IncPlaceholder() {
	placeholderTotal.Inc()
}
