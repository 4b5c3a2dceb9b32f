// Package metrics exposes machine lifecycle activity as Prometheus metrics.
// The Collector satisfies the engine's Observer interface and can be passed
// to automat.WithObserver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records transition counts and the currently active state of
// every observed machine.
type Collector struct {
	transitions *prometheus.CounterVec
	activeState *prometheus.GaugeVec
}

// NewCollector creates a Collector registered with reg. Pass
// prometheus.DefaultRegisterer to use the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "automat_transitions_total",
			Help: "Number of state transitions, by machine and edge.",
		}, []string{"machine", "from", "to"}),
		activeState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "automat_active_state",
			Help: "1 for the currently active state of each machine, 0 otherwise.",
		}, []string{"machine", "state"}),
	}
}

func (c *Collector) Started(machine, state string) {
	c.activeState.WithLabelValues(machine, state).Set(1)
}

func (c *Collector) Transitioned(machine, from, to string) {
	c.transitions.WithLabelValues(machine, from, to).Inc()
	c.activeState.WithLabelValues(machine, from).Set(0)
	c.activeState.WithLabelValues(machine, to).Set(1)
}

func (c *Collector) Stopped(machine, state string) {
	c.activeState.WithLabelValues(machine, state).Set(0)
}
