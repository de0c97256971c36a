package inferences

import (
	"fmt"
	"strings"

	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
)

// SATBackend is the minimal contract Global Subsumption needs from its
// external ground-propositional collaborator (spec §4.8, §5: "send the
// ground propositional abstraction as a SAT clause to an external SAT
// solver"). internal/satbackend supplies the concrete implementations.
type SATBackend interface {
	// AddClause asserts a ground clause (signed atom IDs; negative means
	// negated) as permanently true in the accumulated theory.
	AddClause(lits []int)
	// Solve reports whether the accumulated theory remains satisfiable
	// under the given assumption literals (signed atom IDs forced true).
	Solve(assumptions []int) bool
}

type groundAtomKey struct {
	pred    kernel.PredicateID
	eqSort  kernel.SortID
	argsKey string
}

// GlobalSubsumption implements spec §4.8's Global Subsumption: ground the
// candidate clause, then incrementally test with the SAT backend whether
// some proper subset of its grounded literals is already entailed by the
// accumulated ground theory (asserting the complement of a subset is
// UNSAT) — one literal at a time, exactly the incremental-assumption
// search original_source/Inferences/GlobalSubsumption.cpp performs, rather
// than enumerating all 2^n subsets.
type GlobalSubsumption struct {
	Ctx      *Context
	SAT      SATBackend
	atomIDs  map[groundAtomKey]int
	nextAtom int
}

// NewGlobalSubsumption returns a GlobalSubsumption simplifier querying sat.
func NewGlobalSubsumption(ctx *Context, sat SATBackend) *GlobalSubsumption {
	return &GlobalSubsumption{Ctx: ctx, SAT: sat, atomIDs: make(map[groundAtomKey]int), nextAtom: 1}
}

func (gs *GlobalSubsumption) atomFor(l *kernel.Literal) int {
	key := groundAtomKey{pred: l.Predicate(), argsKey: argsKeyOf(l.Args())}
	if l.IsEquality() {
		key.eqSort = l.EqSort()
	}
	id, ok := gs.atomIDs[key]
	if !ok {
		id = gs.nextAtom
		gs.nextAtom++
		gs.atomIDs[key] = id
	}
	if l.Positive() {
		return id
	}
	return -id
}

func argsKeyOf(args []*kernel.Term) string {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%p|", a)
	}
	return b.String()
}

// varSorts infers every free variable's sort from the declared argument
// sorts of the symbols applying it, recursively through nested terms, so
// grounding can introduce a sort-correct Skolem constant per variable.
func varSorts(sig *kernel.Signature, c *kernel.Clause) map[int]kernel.SortID {
	out := make(map[int]kernel.SortID)
	assign := func(v int, sort kernel.SortID) {
		if _, ok := out[v]; !ok {
			out[v] = sort
		}
	}
	var walk func(t *kernel.Term, hint kernel.SortID)
	walk = func(t *kernel.Term, hint kernel.SortID) {
		if t.IsVar() {
			assign(t.VarID(), hint)
			return
		}
		fn := sig.Function(t.Functor())
		for i, arg := range t.Args() {
			childHint := kernel.SortDefault
			if i < len(fn.ArgSorts) {
				childHint = fn.ArgSorts[i]
			}
			walk(arg, childHint)
		}
	}
	for _, l := range c.Literals() {
		var argSorts []kernel.SortID
		if l.IsEquality() {
			argSorts = []kernel.SortID{l.EqSort(), l.EqSort()}
		} else {
			argSorts = sig.Predicate(l.Predicate()).ArgSorts
		}
		for i, a := range l.Args() {
			hint := kernel.SortDefault
			if i < len(argSorts) {
				hint = argSorts[i]
			}
			walk(a, hint)
		}
	}
	return out
}

// ground replaces every free variable of c by a fresh, sort-correct Skolem
// constant, consistently (same variable, same constant throughout c).
func (gs *GlobalSubsumption) ground(c *kernel.Clause) []*kernel.Literal {
	sorts := varSorts(gs.Ctx.Sig, c)
	consts := make(map[int]*kernel.Term)
	constFor := func(v int) *kernel.Term {
		if t, ok := consts[v]; ok {
			return t
		}
		fn := gs.Ctx.Sig.FreshFunction("gsk", nil, sorts[v])
		t := gs.Ctx.Arena.InternTerm(fn, nil)
		consts[v] = t
		return t
	}
	var groundTerm func(t *kernel.Term) *kernel.Term
	groundTerm = func(t *kernel.Term) *kernel.Term {
		if t.IsVar() {
			return constFor(t.VarID())
		}
		args := t.Args()
		if len(args) == 0 {
			return t
		}
		newArgs := make([]*kernel.Term, len(args))
		changed := false
		for i, a := range args {
			newArgs[i] = groundTerm(a)
			if newArgs[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return gs.Ctx.Arena.InternTerm(t.Functor(), newArgs)
	}
	out := make([]*kernel.Literal, c.Len())
	for i, l := range c.Literals() {
		args := l.Args()
		newArgs := make([]*kernel.Term, len(args))
		for j, a := range args {
			newArgs[j] = groundTerm(a)
		}
		out[i] = gs.Ctx.Arena.ApplyToLiteral(l, newArgs)
	}
	return out
}

func negateKept(atoms []int, keep []bool) []int {
	var out []int
	for i, k := range keep {
		if k {
			out = append(out, -atoms[i])
		}
	}
	return out
}

// ForwardSimplify implements saturation.ForwardSimplifier.
func (gs *GlobalSubsumption) ForwardSimplify(c *kernel.Clause) (saturation.SimplifyOutcome, *kernel.Clause) {
	if c.Len() == 0 {
		return saturation.Unchanged, c
	}
	groundLits := gs.ground(c)
	atoms := make([]int, len(groundLits))
	for i, l := range groundLits {
		atoms[i] = gs.atomFor(l)
	}

	keep := make([]bool, len(atoms))
	for i := range keep {
		keep[i] = true
	}

	changed := false
	for i := range atoms {
		keep[i] = false
		if gs.SAT.Solve(negateKept(atoms, keep)) {
			keep[i] = true // dropping i is not justified by the theory; restore it
			continue
		}
		changed = true // theory already refutes "everything still kept is false": i was redundant
	}
	if !changed {
		return saturation.Unchanged, c
	}
	var survivors []*kernel.Literal
	for i, k := range keep {
		if k {
			survivors = append(survivors, c.Literals()[i])
		}
	}
	if len(survivors) == 0 {
		return saturation.Discarded, nil
	}
	reduced := kernel.NewClause(survivors, c.InputType(), &kernel.Inference{Rule: "global_subsumption", Premises: []*kernel.Clause{c}})
	reduced.SetAge(c.Age())
	return saturation.Simplified, reduced
}

// Learn grounds c and asserts it as a permanent fact of the accumulated
// ground theory. The saturation loop calls this when a clause is retained
// into Active, so later candidates can be checked against it (spec §4.8's
// "accumulated theory" is exactly the set of previously activated
// clauses' ground abstractions).
func (gs *GlobalSubsumption) Learn(c *kernel.Clause) {
	groundLits := gs.ground(c)
	atoms := make([]int, len(groundLits))
	for i, l := range groundLits {
		atoms[i] = gs.atomFor(l)
	}
	gs.SAT.AddClause(atoms)
}
