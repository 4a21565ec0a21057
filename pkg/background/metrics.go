package background

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TaskRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "background_task_duration_seconds",
			Help:    "Duration of background task runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task", "result"},
	)

	TaskPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_task_panics_total",
			Help: "Total number of recovered background task panics",
		},
		[]string{"task"},
	)
)
