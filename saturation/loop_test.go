package saturation

import (
	"testing"
	"time"

	"github.com/petrellabs/saturate/kernel"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type passthroughForward struct{}

func (passthroughForward) ForwardSimplify(c *kernel.Clause) (SimplifyOutcome, *kernel.Clause) {
	return Unchanged, c
}

type noopBackward struct{}

func (noopBackward) BackwardSimplify(*kernel.Clause, *Active, *Passive, *Unprocessed) {}

// emptyClauseGenerator produces the empty clause the first time Generate is
// called against a given clause, and nothing afterward — enough to drive
// the loop to OutcomeRefutation deterministically.
type emptyClauseGenerator struct {
	fired bool
}

func (g *emptyClauseGenerator) Generate(given *kernel.Clause) []*kernel.Clause {
	if g.fired {
		return nil
	}
	g.fired = true
	empty := kernel.NewClause(nil, kernel.InputAxiom, &kernel.Inference{Rule: "test", Premises: []*kernel.Clause{given}})
	empty.SetAge(kernel.AgeFromPremises(given))
	return []*kernel.Clause{empty}
}

type noGenGenerator struct{}

func (noGenGenerator) Generate(*kernel.Clause) []*kernel.Clause { return nil }

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestLoopReachesRefutation(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	loop := NewLoop(bus, passthroughForward{}, noopBackward{}, &emptyClauseGenerator{}, lrs, discardLog())
	loop.Seed(unitClause())

	out, err := loop.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeRefutation, out)
	require.NotNil(t, loop.Refutation())
	require.True(t, loop.Refutation().IsEmpty())
}

func TestLoopReachesSaturationWhenNoNewClausesGenerated(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	loop := NewLoop(bus, passthroughForward{}, noopBackward{}, noGenGenerator{}, lrs, discardLog())
	loop.Seed(unitClause())

	out, err := loop.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeSaturation, out)
}

func TestLoopHonorsStopFlag(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	loop := NewLoop(bus, passthroughForward{}, noopBackward{}, noGenGenerator{}, lrs, discardLog())
	loop.Seed(unitClause())
	loop.StopFlag = func() bool { return true }

	out, err := loop.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeStopped, out)
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

func TestLoopHonorsTimeLimit(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	loop := NewLoop(bus, passthroughForward{}, noopBackward{}, noGenGenerator{}, lrs, discardLog())
	loop.Seed(unitClause())
	loop.TimeLimit = time.Second

	start := time.Now()
	loop.Clock = fakeClock{t: start}
	// Advance the fake clock past the limit on the very first poll.
	loop.Clock = fakeClock{t: start.Add(2 * time.Second)}
	loop.startedAt = start

	out, ok := loop.checkHalt()
	require.True(t, ok)
	require.Equal(t, OutcomeTimeLimit, out)
}

func TestValidateCatchesMissingGenerator(t *testing.T) {
	bus := NewEventBus(nil)
	loop := NewLoop(bus, passthroughForward{}, noopBackward{}, nil, NewLRS(false, bus), discardLog())
	require.ErrorIs(t, loop.Validate(), ErrNoGenerator)
}

func TestDiscardedForwardSimplificationDropsClause(t *testing.T) {
	bus := NewEventBus(nil)
	lrs := NewLRS(false, bus)
	fwd := forwardFunc(func(c *kernel.Clause) (SimplifyOutcome, *kernel.Clause) { return Discarded, nil })
	loop := NewLoop(bus, fwd, noopBackward{}, noGenGenerator{}, lrs, discardLog())
	loop.Seed(unitClause())

	out, err := loop.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeSaturation, out, "discarded clause never reaches Passive, so Passive stays empty")
}

type forwardFunc func(c *kernel.Clause) (SimplifyOutcome, *kernel.Clause)

func (f forwardFunc) ForwardSimplify(c *kernel.Clause) (SimplifyOutcome, *kernel.Clause) {
	return f(c)
}
