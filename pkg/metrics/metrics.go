package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the conversion service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	JobsFinishedTotal   *prometheus.CounterVec
	SegmentsTotal       prometheus.Counter
	SynthesisDuration   prometheus.Histogram
	QueueDepth          prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiofolio_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audiofolio_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		JobsFinishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiofolio_conversion_jobs_finished_total",
			Help: "Conversion jobs reaching a terminal state.",
		}, []string{"status"}),
		SegmentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiofolio_synthesized_segments_total",
			Help: "Successfully synthesized segments.",
		}),
		SynthesisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiofolio_synthesis_duration_seconds",
			Help:    "Wall time of whole-job synthesis.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audiofolio_conversion_queue_depth",
			Help: "Jobs waiting for a synthesis worker.",
		}),
	}
}
