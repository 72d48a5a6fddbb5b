package propagate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	layersVisited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poolprop_layers_visited_total",
		Help: "Layers whose pool tag was inspected by a propagation pass",
	})

	layersTagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poolprop_layers_tagged_total",
		Help: "Layers that received a pool during a propagation pass",
	})

	// pickOutcomes counts picker decisions.
	// Labels: "assigned", "unconstrained", "no_candidates"
	pickOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poolprop_pick_outcomes_total",
		Help: "Pool picker decisions by outcome",
	}, []string{"outcome"})

	unknownSizeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poolprop_unknown_size_fallbacks_total",
		Help: "Picker calls that costed pools by key count because a size was unknown",
	})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "poolprop_pass_duration_seconds",
		Help:    "Duration of a full propagation pass",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})
)
