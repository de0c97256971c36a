package saturation

import (
	"github.com/petrellabs/saturate/kernel"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes container occupancy and loop throughput as prometheus
// gauges/counters (SPEC_FULL.md's domain-stack wiring for observability;
// the core saturation algorithm itself never reads these).
type Metrics struct {
	Unprocessed prometheus.Gauge
	Passive     prometheus.Gauge
	Active      prometheus.Gauge
	Generated   prometheus.Counter
	Discarded   prometheus.Counter
	Iterations  prometheus.Counter
}

// NewMetrics constructs and registers a Metrics set on reg. Passing a
// fresh *prometheus.Registry (rather than the global default) keeps
// multiple concurrent Prover instances (the portfolio/orchestration layer
// of spec §5) from colliding on metric names.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Unprocessed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "saturate",
			Subsystem: "containers",
			Name:      "unprocessed_size",
			Help:      "Number of clauses currently in the Unprocessed container.",
		}),
		Passive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "saturate",
			Subsystem: "containers",
			Name:      "passive_size",
			Help:      "Number of clauses currently in the Passive container.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "saturate",
			Subsystem: "containers",
			Name:      "active_size",
			Help:      "Number of clauses currently in the Active container.",
		}),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "saturate",
			Subsystem: "loop",
			Name:      "clauses_generated_total",
			Help:      "Total clauses produced by generating inferences.",
		}),
		Discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "saturate",
			Subsystem: "loop",
			Name:      "clauses_discarded_total",
			Help:      "Total 'removed' container events, including clauses leaving Unprocessed.",
		}),
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "saturate",
			Subsystem: "loop",
			Name:      "given_clause_iterations_total",
			Help:      "Total given-clause loop iterations completed.",
		}),
	}
	reg.MustRegister(m.Unprocessed, m.Passive, m.Active, m.Generated, m.Discarded, m.Iterations)
	return m
}

// Observe samples the current container sizes into the gauges. The loop
// calls this once per outer iteration; it is cheap (three Len() calls).
func (m *Metrics) Observe(l *Loop) {
	if m == nil {
		return
	}
	m.Unprocessed.Set(float64(l.Unprocessed.Len()))
	m.Passive.Set(float64(l.Passive.Len()))
	m.Active.Set(float64(l.Active.Len()))
}

// Subscribe wires the Discarded counter to bus's 'removed' event, so every
// removal from a container (an Unprocessed pop as well as an eviction) is
// counted without the loop having to call into Metrics directly at each
// removal site.
func (m *Metrics) Subscribe(bus *EventBus) {
	if m == nil {
		return
	}
	bus.Subscribe(EventRemoved, func(c *kernel.Clause) {
		m.Discarded.Inc()
	})
}
