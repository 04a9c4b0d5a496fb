package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_mutations_total",
			Help: "Total number of post mutations by operation",
		},
		[]string{"operation"},
	)

	ProfileMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_mutations_total",
			Help: "Total number of profile mutations by operation",
		},
		[]string{"operation"},
	)
)
