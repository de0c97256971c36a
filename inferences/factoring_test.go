package inferences

import (
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/stretchr/testify/require"
)

func TestFactoringUnifiesDuplicatePredicate(t *testing.T) {
	sig, a, ctx := newTestContext()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	x, y := a.Var(0), a.Var(1)

	lx := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{x})
	ly := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{y})
	given := kernel.NewClause([]*kernel.Literal{lx, ly}, kernel.InputAxiom, nil)

	f := &Factoring{Ctx: ctx}
	results := f.Generate(given)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Equal(t, 1, r.Len())
		require.True(t, r.Literals()[0].Predicate() == p)
	}
}

func TestFactoringSkipsDifferentPredicates(t *testing.T) {
	sig, a, ctx := newTestContext()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	q := sig.InternPredicate("q", []kernel.SortID{kernel.SortDefault})
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	lp := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})
	lq := a.InternLiteral(q, true, kernel.SortDefault, []*kernel.Term{ct})
	given := kernel.NewClause([]*kernel.Literal{lp, lq}, kernel.InputAxiom, nil)

	f := &Factoring{Ctx: ctx}
	require.Empty(t, f.Generate(given))
}
