package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "glucowise"

var (
	readingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "ingestion",
		Name:      "readings_total",
		Help:      "Glucose readings persisted.",
	})

	forecastOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "forecast",
			Name:      "runs_total",
			Help:      "Prediction runs by outcome.",
		},
		[]string{"outcome"},
	)

	forecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "forecast",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the forecasting service.",
		Buckets:   prometheus.DefBuckets,
	})

	dispatchSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatcher",
		Name:      "submissions_total",
		Help:      "Prediction tasks accepted for execution.",
	})

	dispatchDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatcher",
		Name:      "dropped_total",
		Help:      "Prediction tasks dropped because the queue was full or stopped.",
	})

	dispatchQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatcher",
		Name:      "queue_depth",
		Help:      "Prediction tasks waiting for a worker.",
	})
)

// Prediction run outcomes.
const (
	outcomeSkipped = "skipped"
	outcomeStored  = "stored"
	outcomeEmpty   = "empty"
	outcomeFailed  = "failed"
)
