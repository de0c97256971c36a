package saturation

import (
	"time"

	"github.com/petrellabs/saturate/kernel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SimplifyOutcome is the three-way result a forward or backward simplifier
// reports for one clause (spec §4.8: "simplify(clause) → simplified |
// unchanged | discarded").
type SimplifyOutcome int

const (
	Unchanged SimplifyOutcome = iota
	Simplified
	Discarded
)

// ForwardSimplifier reduces or eliminates an incoming clause against the
// current index state before it is allowed into Passive (spec §4.7's
// forward_simplify step). A Simplified outcome returns the replacement
// clause; an Unchanged or Discarded outcome's returned clause is ignored.
type ForwardSimplifier interface {
	ForwardSimplify(c *kernel.Clause) (SimplifyOutcome, *kernel.Clause)
}

// BackwardSimplifier lets the newly activated given clause reduce or evict
// clauses already sitting in Active/Passive (spec §4.7's backward_simplify
// step: "may demote actives/passives"). It mutates the containers directly
// rather than returning anything, since a single backward pass can touch an
// arbitrary number of existing clauses.
type BackwardSimplifier interface {
	BackwardSimplify(given *kernel.Clause, active *Active, passive *Passive, unprocessed *Unprocessed)
}

// Generator produces new clauses from the given clause against whatever
// indices it was configured with (spec §4.8's generate(premise) →
// iterator<clause>: resolution, factoring, superposition, equality
// resolution/factoring).
type Generator interface {
	Generate(given *kernel.Clause) []*kernel.Clause
}

// Clock abstracts wall-clock polling so the loop's time-limit behavior is
// deterministic under test (spec §4.7: "a process-wide timer is polled
// each loop iteration").
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Outcome is the terminal status the loop reports (spec §4.7/§6).
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeRefutation
	OutcomeSaturation
	OutcomeTimeLimit
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefutation:
		return "refutation"
	case OutcomeSaturation:
		return "saturation"
	case OutcomeTimeLimit:
		return "time-limit"
	case OutcomeStopped:
		return "stopped"
	default:
		return "running"
	}
}

// Loop owns the three containers and drives the given-clause procedure
// (spec §4.7), grounded in shape on the teacher's top-level solve loop: a
// single struct holding all mutable state, a for{} with an explicit
// decision step (SelectNext), a propagation/simplification step
// (forward/backward simplify), and halt conditions checked each iteration.
type Loop struct {
	Unprocessed *Unprocessed
	Passive     *Passive
	Active      *Active
	Bus         *EventBus

	Forward  ForwardSimplifier
	Backward BackwardSimplifier
	Generate Generator
	LRS      *LRS

	TimeLimit time.Duration
	Clock     Clock
	StopFlag  func() bool
	Metrics   *Metrics

	log *logrus.Entry

	startedAt  time.Time
	refutation *kernel.Clause
	iterations uint64
}

// NewLoop wires a Loop over freshly constructed containers sharing bus.
func NewLoop(bus *EventBus, forward ForwardSimplifier, backward BackwardSimplifier, gen Generator, lrs *LRS, log *logrus.Entry) *Loop {
	return &Loop{
		Unprocessed: NewUnprocessed(bus),
		Passive:     NewPassive(DefaultActivationPriority, bus),
		Active:      NewActive(bus),
		Bus:         bus,
		Forward:     forward,
		Backward:    backward,
		Generate:    gen,
		LRS:         lrs,
		Clock:       realClock{},
		log:         log,
	}
}

// Seed pushes an initial input clause into Unprocessed with age 0.
func (l *Loop) Seed(c *kernel.Clause) {
	c.SetAge(0)
	l.Unprocessed.Push(c)
}

// Refutation returns the empty clause that terminated the run, if the
// outcome was OutcomeRefutation.
func (l *Loop) Refutation() *kernel.Clause { return l.refutation }

// Iterations reports how many given-clause iterations Run has completed.
func (l *Loop) Iterations() uint64 { return l.iterations }

// Run drives the given-clause procedure to completion (spec §4.7).
func (l *Loop) Run() (Outcome, error) {
	l.startedAt = l.Clock.Now()
	for {
		if out, ok := l.checkHalt(); ok {
			return out, nil
		}

		for !l.Unprocessed.Empty() {
			if out, ok := l.checkHalt(); ok {
				return out, nil
			}
			c := l.Unprocessed.Pop()
			outcome, replacement := l.Forward.ForwardSimplify(c)
			switch outcome {
			case Discarded:
				continue
			case Simplified:
				c = replacement
			}
			if c.IsEmpty() {
				l.refutation = c
				l.log.WithField("clause", c.ID()).Info("refutation found")
				return OutcomeRefutation, nil
			}
			l.Passive.Add(c)
		}

		if l.Passive.Empty() {
			return OutcomeSaturation, nil
		}

		g := l.Passive.SelectNext()
		limits := l.LRS.Current()
		if !limits.PassesRetention(g) {
			g.SetStore(kernel.StoreNone)
			continue
		}
		l.Active.Add(g)

		if l.Backward != nil {
			l.Backward.BackwardSimplify(g, l.Active, l.Passive, l.Unprocessed)
		}

		// Generator implementations stamp c.age = max(premise ages)+1 via
		// kernel.AgeFromPremises before returning it (spec §4.7).
		generated := l.Generate.Generate(g)
		for _, c := range generated {
			l.Unprocessed.Push(c)
		}
		l.iterations++
		if l.Metrics != nil {
			l.Metrics.Iterations.Inc()
			l.Metrics.Generated.Add(float64(len(generated)))
			l.Metrics.Observe(l)
		}
	}
}

// checkHalt polls the cooperative cancellation points spec §4.7/§5
// mandate: the external stop flag and the process-wide timer.
func (l *Loop) checkHalt() (Outcome, bool) {
	if l.StopFlag != nil && l.StopFlag() {
		return OutcomeStopped, true
	}
	if l.TimeLimit > 0 && l.Clock.Now().Sub(l.startedAt) > l.TimeLimit {
		return OutcomeTimeLimit, true
	}
	return OutcomeRunning, false
}

// ErrNoGenerator is returned by validation helpers (not by Run itself,
// which assumes a fully wired Loop) when a Loop is constructed without a
// Generator — a configuration mistake the prover package checks for before
// starting the loop.
var ErrNoGenerator = errors.New("saturation: loop has no Generator configured")

// Validate reports a configuration error before Run is invoked, so the
// caller gets a clear message instead of a nil-pointer panic deep in the
// loop.
func (l *Loop) Validate() error {
	if l.Generate == nil {
		return ErrNoGenerator
	}
	if l.Forward == nil {
		return errors.New("saturation: loop has no ForwardSimplifier configured")
	}
	if l.LRS == nil {
		return errors.New("saturation: loop has no LRS configured")
	}
	return nil
}
