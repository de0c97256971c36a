package kernel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestSig() (*Signature, *Arena) {
	sig := NewSignature()
	return sig, sig.Arena()
}

func TestInternTermIdempotent(t *testing.T) {
	sig, a := newTestSig()
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	x := a.Var(0)

	t1 := a.InternTerm(f, []*Term{x})
	t2 := a.InternTerm(f, []*Term{x})
	require.True(t, t1 == t2, "two interns of the same key must return the same pointer")
}

func TestInternFunctionIdempotentByArity(t *testing.T) {
	sig, _ := newTestSig()
	f1 := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	f2 := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	require.Equal(t, f1, f2)

	// Same name, different arity: distinct symbol.
	f3 := sig.InternFunction("f", []SortID{SortDefault, SortDefault}, SortDefault)
	require.NotEqual(t, f1, f3)
}

func TestGroundBitAndWeight(t *testing.T) {
	sig, a := newTestSig()
	c := sig.InternFunction("c", nil, SortDefault)
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)

	cst := a.InternTerm(c, nil)
	require.True(t, cst.IsGround())
	require.EqualValues(t, 1, cst.Weight())

	ft := a.InternTerm(f, []*Term{cst})
	require.True(t, ft.IsGround())
	require.EqualValues(t, 2, ft.Weight())

	x := a.Var(0)
	require.False(t, x.IsGround())

	fx := a.InternTerm(f, []*Term{x})
	require.False(t, fx.IsGround())
	require.EqualValues(t, 2, fx.Weight()) // 1 (f) + 1 (variable)
}

func TestVarsMultiplicity(t *testing.T) {
	sig, a := newTestSig()
	f := sig.InternFunction("f", []SortID{SortDefault, SortDefault}, SortDefault)
	x, y := a.Var(0), a.Var(1)
	term := a.InternTerm(f, []*Term{x, x})
	occs := term.Vars()
	require.Len(t, occs, 1)
	require.Equal(t, VarOcc{Var: 0, Count: 2}, occs[0])

	term2 := a.InternTerm(f, []*Term{x, y})
	occs2 := term2.Vars()
	if diff := cmp.Diff([]VarOcc{{Var: 0, Count: 1}, {Var: 1, Count: 1}}, occs2, cmp.AllowUnexported(VarOcc{})); diff != "" {
		t.Fatalf("Vars() mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace(t *testing.T) {
	sig, a := newTestSig()
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	c1 := sig.InternFunction("c1", nil, SortDefault)
	c2 := sig.InternFunction("c2", nil, SortDefault)

	c1t := a.InternTerm(c1, nil)
	c2t := a.InternTerm(c2, nil)
	ft := a.InternTerm(f, []*Term{c1t})

	replaced := a.Replace(ft, c1t, c2t)
	require.Equal(t, a.InternTerm(f, []*Term{c2t}), replaced)

	// Replacing something not present is a no-op (returns the same term).
	same := a.Replace(ft, c2t, c1t)
	require.True(t, same == ft)
}

func TestSubtermsSkip(t *testing.T) {
	sig, a := newTestSig()
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	g := sig.InternFunction("g", []SortID{SortDefault}, SortDefault)
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	gt := a.InternTerm(g, []*Term{ct})
	ft := a.InternTerm(f, []*Term{gt})

	var visited []*Term
	ft.Subterms(func(sub *Term, path []int) bool {
		visited = append(visited, sub)
		return sub == ft // skip descending into ft's own children after recording it? no-op test of skip signal
	})
	require.Len(t, visited, 1) // skip=true on the first (root) call prevents descending further
}
