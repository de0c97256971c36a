package inferences

import (
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/stretchr/testify/require"
)

func TestEqualityResolutionUnifiesAndDropsLiteral(t *testing.T) {
	sig, a, ctx := newTestContext()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	x := a.Var(0)
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	// X != c | p(X)
	neq := a.InternLiteral(kernel.PredEquality, false, kernel.SortDefault, []*kernel.Term{x, ct})
	px := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{x})
	given := kernel.NewClause([]*kernel.Literal{neq, px}, kernel.InputAxiom, nil)

	er := &EqualityResolution{Ctx: ctx}
	results := er.Generate(given)
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].Len())
	require.True(t, results[0].Literals()[0].Predicate() == p)
}

func TestEqualityResolutionFailsOnNonUnifiable(t *testing.T) {
	sig, a, ctx := newTestContext()
	c1 := sig.InternFunction("c1", nil, kernel.SortDefault)
	c2 := sig.InternFunction("c2", nil, kernel.SortDefault)
	c1t, c2t := a.InternTerm(c1, nil), a.InternTerm(c2, nil)

	neq := a.InternLiteral(kernel.PredEquality, false, kernel.SortDefault, []*kernel.Term{c1t, c2t})
	given := kernel.NewClause([]*kernel.Literal{neq}, kernel.InputAxiom, nil)

	er := &EqualityResolution{Ctx: ctx}
	require.Empty(t, er.Generate(given))
}

func TestEqualityFactoringProducesResult(t *testing.T) {
	_, a, ctx := newTestContext()
	x, y, z := a.Var(0), a.Var(1), a.Var(2)

	// X = Y | X = Z
	st := a.InternLiteral(kernel.PredEquality, true, kernel.SortDefault, []*kernel.Term{x, y})
	uv := a.InternLiteral(kernel.PredEquality, true, kernel.SortDefault, []*kernel.Term{x, z})
	given := kernel.NewClause([]*kernel.Literal{st, uv}, kernel.InputAxiom, nil)

	ef := &EqualityFactoring{Ctx: ctx}
	results := ef.Generate(given)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Equal(t, 2, r.Len())
	}
}
