package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VerificationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_outcomes_total",
			Help: "Total number of verification attempts by outcome",
		},
		[]string{"network", "outcome"},
	)

	VerificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verification_duration_seconds",
			Help:    "Duration of verification attempts including chain and rate lookups",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"network"},
	)

	StaleVerificationsResetTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verification_stale_reset_total",
			Help: "Total number of verifying orders returned to not_verified by the reaper",
		},
	)
)
