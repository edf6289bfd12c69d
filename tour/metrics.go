package tour

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_calculations_total",
			Help: "Total number of tour calculations by instance and outcome",
		},
		[]string{"instance", "outcome"},
	)

	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tour_calculation_duration_seconds",
			Help:    "Tour calculation duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"instance"},
	)
)
