package predict

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsServed counts prediction requests answered end to end.
	PredictionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bikeshare_predictions_served_total",
		Help: "Total number of prediction requests served.",
	})
	inferenceFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bikeshare_inference_failed_total",
		Help: "Total number of failed inference calls.",
	})
	inferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bikeshare_inference_duration_seconds",
		Help:    "Duration of model inference calls.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
)
