package saturation

import (
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserveSamplesContainerSizes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	bus := NewEventBus(nil)
	l := &Loop{Unprocessed: NewUnprocessed(bus), Passive: NewPassive(DefaultActivationPriority, bus), Active: NewActive(bus)}

	c := kernel.NewClause(nil, kernel.InputAxiom, nil)
	l.Unprocessed.Push(c)

	m.Observe(l)
	require.Equal(t, float64(1), testutil.ToFloat64(m.Unprocessed))
	require.Equal(t, float64(0), testutil.ToFloat64(m.Passive))
	require.Equal(t, float64(0), testutil.ToFloat64(m.Active))
}

func TestMetricsSubscribeCountsRemovals(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	bus := NewEventBus(nil)
	m.Subscribe(bus)

	u := NewUnprocessed(bus)
	c1 := kernel.NewClause(nil, kernel.InputAxiom, nil)
	c2 := kernel.NewClause(nil, kernel.InputAxiom, nil)
	u.Push(c1)
	u.Push(c2)
	u.Pop()
	u.Pop()

	require.Equal(t, float64(2), testutil.ToFloat64(m.Discarded))
}

func TestMetricsObserveNilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() { m.Observe(nil) })
}
