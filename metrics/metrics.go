package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector this service exposes on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(PredictTotal, PredictDuration, SampleDelay)
}

// PredictTotal counts dispatches by mode and outcome.
var PredictTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "konacaption_predict_total",
		Help: "Prediction dispatches by mode and outcome",
	},
	[]string{"mode", "outcome"}, // outcome: ok | invalid_input | backend_error | malformed_response | network_failure | sample_not_found
)

var PredictDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "konacaption_predict_duration_seconds",
		Help:    "Prediction dispatch latency in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"mode"},
)

// SampleDelay counts artificial delays served in static mode.
var SampleDelay = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "konacaption_sample_delay_total",
		Help: "Artificial delays applied before returning catalog results",
	},
)

func ObservePredict(mode, outcome string, d time.Duration) {
	PredictTotal.WithLabelValues(mode, outcome).Inc()
	PredictDuration.WithLabelValues(mode).Observe(d.Seconds())
}
