package saturation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnboundedPassesEverything(t *testing.T) {
	c := unitClause()
	c.SetAge(1_000_000)
	require.True(t, Unbounded().PassesRetention(c))
}

func TestPassesRetentionAgeOverridesWeight(t *testing.T) {
	l := Limits{AgeLimit: 10, WeightLimit: 0}
	c := unitClause()
	c.SetAge(5)
	require.True(t, l.PassesRetention(c), "within age limit regardless of weight")

	c.SetAge(20)
	require.False(t, l.PassesRetention(c), "over age limit and over weight limit")
}

func TestTightened(t *testing.T) {
	l := Limits{AgeLimit: 10, WeightLimit: 10}
	require.True(t, l.Tightened(Limits{AgeLimit: 5, WeightLimit: 10}))
	require.True(t, l.Tightened(Limits{AgeLimit: 10, WeightLimit: 5}))
	require.False(t, l.Tightened(Limits{AgeLimit: 10, WeightLimit: 10}))
	require.False(t, l.Tightened(Limits{AgeLimit: 20, WeightLimit: 20}))
}

func TestLRSDisabledIsNoop(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	require.Equal(t, Unbounded(), lrs.Current())

	active := NewActive(bus)
	passive := NewPassive(DefaultActivationPriority, bus)
	discarded := lrs.Update(Limits{AgeLimit: 0, WeightLimit: 0}, active, passive)
	require.Nil(t, discarded)
	require.Equal(t, Unbounded(), lrs.Current())
}

func TestLRSUpdateDiscardsOverLimitClauses(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(true, bus)
	active := NewActive(bus)
	passive := NewPassive(DefaultActivationPriority, bus)

	keepMe := unitClause()
	keepMe.SetAge(0)
	dropMe := unitClause()
	dropMe.SetAge(1000)

	active.Add(keepMe)
	passive.Add(dropMe)

	discarded := lrs.Update(Limits{AgeLimit: 5, WeightLimit: 0}, active, passive)
	require.Len(t, discarded, 1)
	require.Same(t, dropMe, discarded[0])
	require.Equal(t, 1, active.Len())
	require.Equal(t, 0, passive.Len())
}

func TestLRSUpdateNoopWhenNotTighter(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(true, bus)
	active := NewActive(bus)
	passive := NewPassive(DefaultActivationPriority, bus)

	discarded := lrs.Update(Limits{AgeLimit: 50, WeightLimit: 50}, active, passive)
	require.Nil(t, discarded, "no clauses to discard yet")
	require.Equal(t, Limits{AgeLimit: 50, WeightLimit: 50}, lrs.Current())

	discarded = lrs.Update(Limits{AgeLimit: 100, WeightLimit: 100}, active, passive)
	require.Nil(t, discarded, "widening is not a tightening")
	require.Equal(t, Limits{AgeLimit: 100, WeightLimit: 100}, lrs.Current(), "Update still records the widened limits")
}
