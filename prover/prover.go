// Package prover wires the kernel, indexing, inferences, and saturation
// packages into one runnable object: Options in, a Result with spec §6's
// exit code out. Grounded on the teacher's cmd/saturday/saturday.go main
// (read input, call Solve, report a verdict) generalized into a reusable
// Prover.Run that cmd/saturate's thin CLI layer calls into.
package prover

import (
	"io"
	"time"

	"github.com/petrellabs/saturate/indexing"
	"github.com/petrellabs/saturate/inferences"
	"github.com/petrellabs/saturate/internal/intake"
	"github.com/petrellabs/saturate/internal/satbackend"
	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Prover owns one saturation run's full state: the signature/arena clauses
// live in, the indices generating and simplifying inferences query, and
// the loop driving them. A Prover is single-use: construct one per Run.
type Prover struct {
	opts Options
	log  *logrus.Entry

	sig   *kernel.Signature
	arena *kernel.Arena
	ord   *kernel.KBO
	bus   *saturation.EventBus
	loop  *saturation.Loop
}

// generatorChain runs every Generator against the given clause and
// concatenates their results, the combinator a single-rule-per-struct
// design (mirroring original_source/Inferences, one .cpp per rule) needs
// to present the saturation loop with one Generator.
type generatorChain struct {
	gens []saturation.Generator
}

func (g *generatorChain) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	for _, gen := range g.gens {
		out = append(out, gen.Generate(given)...)
	}
	return out
}

// simplifyChain runs a sequence of ForwardSimplifiers, feeding each one's
// output to the next, then applies literal selection to whatever survives
// — selection runs once per clause, right before it is eligible for
// Passive/Active, so every generating rule downstream always sees a
// clause with SelectedLiterals already narrowed (spec §4.4).
type simplifyChain struct {
	stages   []saturation.ForwardSimplifier
	selector kernel.LiteralSelector
	ord      *kernel.KBO
}

func (s *simplifyChain) ForwardSimplify(c *kernel.Clause) (saturation.SimplifyOutcome, *kernel.Clause) {
	cur := c
	changed := false
	for _, stage := range s.stages {
		outcome, next := stage.ForwardSimplify(cur)
		switch outcome {
		case saturation.Discarded:
			return saturation.Discarded, nil
		case saturation.Simplified:
			cur = next
			changed = true
		}
	}
	s.selector.Select(cur, s.ord)
	if changed {
		return saturation.Simplified, cur
	}
	return saturation.Unchanged, cur
}

// New constructs a Prover from opts. log may be nil, in which case a
// discarding logger is used (the prover is usable as a library with no
// ambient logging configured).
func New(opts Options, log *logrus.Entry) (*Prover, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	if lvl, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		log.Logger.SetLevel(lvl)
	}

	selector, err := opts.Selector()
	if err != nil {
		return nil, err
	}

	sig := kernel.NewSignature()
	arena := sig.Arena()
	ord := kernel.NewKBO(sig, kernel.NewPrecedence(nil, nil))
	bus := saturation.NewEventBus(log)
	ctx := &inferences.Context{Arena: arena, Sig: sig, Ord: ord}

	literalIdx := indexing.NewLiteralIndex(arena, kernel.BankResult)
	subtermIdx := indexing.NewTermIndex(arena, kernel.BankResult)
	equationIdx := inferences.NewEquationIndex(arena)
	demodIdx := inferences.NewDemodulatorIndex(arena)

	var sat inferences.SATBackend
	switch opts.SATBackend {
	case "", "dpll":
		sat = satbackend.NewDPLL(log)
	case "gini":
		sat = satbackend.NewGiniBackend()
	default:
		return nil, errors.Errorf("prover: unknown sat backend %q", opts.SATBackend)
	}
	globalSub := inferences.NewGlobalSubsumption(ctx, sat)

	gens := &generatorChain{gens: []saturation.Generator{
		&inferences.BinaryResolution{Ctx: ctx, Literal: literalIdx},
		&inferences.Factoring{Ctx: ctx},
		&inferences.EqualityResolution{Ctx: ctx},
		&inferences.EqualityFactoring{Ctx: ctx},
		&inferences.Superposition{Ctx: ctx, Subterms: subtermIdx, Equations: equationIdx},
	}}

	stages := []saturation.ForwardSimplifier{
		&inferences.ForwardDemodulation{Ctx: ctx, Idx: demodIdx},
		&inferences.ForwardSubsumption{Ctx: ctx, Literal: literalIdx},
		&inferences.SubsumptionResolution{Ctx: ctx, Literal: literalIdx},
	}
	if opts.GlobalSubsumptionEnabled {
		stages = append(stages, globalSub)
	}
	forward := &simplifyChain{stages: stages, selector: selector, ord: ord}

	lrs := saturation.NewLRS(opts.LRSEnabled, bus)
	loop := saturation.NewLoop(bus, forward, nil, gens, lrs, log)
	loop.TimeLimit = opts.TimeLimit
	// NewLoop wires Passive with saturation.DefaultActivationPriority;
	// override it with the configured weights before any clause is pushed.
	loop.Passive = saturation.NewPassive(opts.ActivationPriority(), bus)

	registerIndices(bus, literalIdx, subtermIdx, equationIdx, demodIdx, globalSub, sig, ord)

	return &Prover{opts: opts, log: log, sig: sig, arena: arena, ord: ord, bus: bus, loop: loop}, nil
}

// registerIndices subscribes every index (and Global Subsumption's SAT
// theory) to the shared bus's Added/Removed events, filtered to clauses
// entering or leaving Active — Unprocessed.Push and Passive.Add publish
// the same EventAdded kind on the same bus, so the filter on
// c.Store()==StoreActive (set by Active.Add before it publishes) is what
// keeps non-active churn out of the indices. Removal has no such filter:
// every container's eviction calls each index's Remove, which is a no-op
// if the clause was never inserted (the underlying Tree.Remove simply
// reports "not found").
func registerIndices(bus *saturation.EventBus, literalIdx *indexing.LiteralIndex, subtermIdx *indexing.TermIndex, equationIdx *inferences.EquationIndex, demodIdx *inferences.DemodulatorIndex, globalSub *inferences.GlobalSubsumption, sig *kernel.Signature, ord *kernel.KBO) {
	bus.Subscribe(saturation.EventAdded, func(c *kernel.Clause) {
		if c.Store() != kernel.StoreActive {
			return
		}
		literalIdx.Insert(c)
		subtermIdx.InsertSubterms(c)
		equationIdx.Insert(sig, c)
		demodIdx.Insert(sig, ord, c)
		globalSub.Learn(c)
	})
	bus.Subscribe(saturation.EventRemoved, func(c *kernel.Clause) {
		literalIdx.Remove(c)
		subtermIdx.RemoveSubterms(c)
		equationIdx.Remove(sig, c)
		demodIdx.Remove(sig, ord, c)
	})
}

// Signature exposes the Prover's symbol table, e.g. for formatting a
// returned refutation.
func (p *Prover) Signature() *kernel.Signature { return p.sig }

// Arena exposes the Prover's term/literal arena.
func (p *Prover) Arena() *kernel.Arena { return p.arena }

// LoadInput parses r with the clausal intake grammar and seeds the
// resulting clauses into the loop's Unprocessed container.
func (p *Prover) LoadInput(r io.Reader) error {
	parser := intake.NewParser(p.sig)
	clauses, err := parser.ParseClauses(r)
	if err != nil {
		return err
	}
	for _, c := range clauses {
		p.loop.Seed(c)
	}
	return nil
}

// Stop requests cooperative cancellation of an in-progress Run, checked at
// each loop iteration (spec §4.7/§5).
func (p *Prover) Stop() {
	stopped := true
	p.loop.StopFlag = func() bool { return stopped }
}

// Run drives the given-clause procedure to completion and reports the
// outcome (spec §4.7, §6).
func (p *Prover) Run() (*Result, error) {
	if err := p.loop.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	outcome, err := p.loop.Run()
	if err != nil {
		return nil, err
	}
	p.log.WithField("elapsed", time.Since(started)).WithField("outcome", outcome).Info("run complete")
	return &Result{
		Outcome:     outcome,
		Refutation:  p.loop.Refutation(),
		Iterations:  p.loop.Iterations(),
		GeneratedBy: p.sig,
	}, nil
}
