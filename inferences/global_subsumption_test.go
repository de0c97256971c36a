package inferences

import (
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
	"github.com/stretchr/testify/require"
)

// fakeSAT is a tiny in-memory stand-in for internal/satbackend.Backend: it
// treats every asserted unit clause's single literal as a permanent fact,
// and Solve fails (UNSAT) an assumption set iff it directly contradicts one
// of those facts. Sufficient to exercise GlobalSubsumption's control flow
// without a real SAT engine.
type fakeSAT struct {
	facts map[int]bool // atom -> forced truth value
}

func newFakeSAT() *fakeSAT { return &fakeSAT{facts: make(map[int]bool)} }

func (f *fakeSAT) AddClause(lits []int) {
	if len(lits) != 1 {
		return
	}
	lit := lits[0]
	if lit > 0 {
		f.facts[lit] = true
	} else {
		f.facts[-lit] = false
	}
}

func (f *fakeSAT) Solve(assumptions []int) bool {
	for _, lit := range assumptions {
		atom := lit
		want := true
		if atom < 0 {
			atom = -atom
			want = false
		}
		if truth, ok := f.facts[atom]; ok && truth != want {
			return false
		}
	}
	return true
}

func TestGlobalSubsumptionKeepsEntailedSubset(t *testing.T) {
	sig, a, ctx := newTestContext()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	q := sig.InternPredicate("q", []kernel.SortID{kernel.SortDefault})
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	sat := newFakeSAT()
	gs := NewGlobalSubsumption(ctx, sat)

	// Learn the ground fact p(c) into the accumulated theory.
	fact := kernel.NewClause([]*kernel.Literal{a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})}, kernel.InputAxiom, nil)
	gs.Learn(fact)

	// Candidate: p(c) | q(c), ground like the learned fact (Global
	// Subsumption only recognizes an atom as already known when grounding
	// lands on the same constant, so this candidate reuses c directly
	// rather than a variable). Since p(c) is already a theory fact, the
	// assumption "p(c) is false" is unsatisfiable, so the subset {p(c)} is
	// already entailed and replaces the candidate: q(c) is dropped.
	pc := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})
	qc := a.InternLiteral(q, true, kernel.SortDefault, []*kernel.Term{ct})
	candidate := kernel.NewClause([]*kernel.Literal{pc, qc}, kernel.InputAxiom, nil)

	outcome, result := gs.ForwardSimplify(candidate)
	require.Equal(t, saturation.Simplified, outcome)
	require.Equal(t, 1, result.Len())
	require.True(t, result.Literals()[0].Predicate() == p)
}

func TestGlobalSubsumptionUnchangedWhenNothingEntailed(t *testing.T) {
	sig, a, ctx := newTestContext()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	sat := newFakeSAT()
	gs := NewGlobalSubsumption(ctx, sat)

	candidate := kernel.NewClause([]*kernel.Literal{a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})}, kernel.InputAxiom, nil)
	outcome, result := gs.ForwardSimplify(candidate)
	require.Equal(t, saturation.Unchanged, outcome)
	require.True(t, result == candidate)
}
