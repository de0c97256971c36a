package indexing

import (
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/stretchr/testify/require"
)

func newIndexTestSig() (*kernel.Signature, *kernel.Arena) {
	sig := kernel.NewSignature()
	return sig, sig.Arena()
}

func TestLiteralIndexQueryFindsComplementaryLiteral(t *testing.T) {
	sig, a := newIndexTestSig()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	pos := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})
	neg := a.InternLiteral(p, false, kernel.SortDefault, []*kernel.Term{ct})

	posClause := kernel.NewClause([]*kernel.Literal{pos}, kernel.InputAxiom, nil)

	idx := NewLiteralIndex(a, kernel.BankResult)
	idx.Insert(posClause)

	results := idx.Query(kernel.BankQuery, neg, ModeUnify)
	require.Len(t, results, 1)
	require.Same(t, posClause, results[0].Leaf.Clause)
}

func TestLiteralIndexQuerySamePolarityFindsSharedPredicate(t *testing.T) {
	sig, a := newIndexTestSig()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	x := a.Var(sig.FreshVarID())
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	generic := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{x})
	ground := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})

	genClause := kernel.NewClause([]*kernel.Literal{generic}, kernel.InputAxiom, nil)

	idx := NewLiteralIndex(a, kernel.BankResult)
	idx.Insert(genClause)

	results := idx.QuerySamePolarity(kernel.BankQuery, ground, ModeGeneralization)
	require.Len(t, results, 1)
}

func TestLiteralIndexRemoveDropsClause(t *testing.T) {
	sig, a := newIndexTestSig()
	p := sig.InternPredicate("p", []kernel.SortID{kernel.SortDefault})
	c := sig.InternFunction("c", nil, kernel.SortDefault)
	ct := a.InternTerm(c, nil)

	pos := a.InternLiteral(p, true, kernel.SortDefault, []*kernel.Term{ct})
	neg := a.InternLiteral(p, false, kernel.SortDefault, []*kernel.Term{ct})
	posClause := kernel.NewClause([]*kernel.Literal{pos}, kernel.InputAxiom, nil)

	idx := NewLiteralIndex(a, kernel.BankResult)
	idx.Insert(posClause)
	idx.Remove(posClause)

	require.Empty(t, idx.Query(kernel.BankQuery, neg, ModeUnify))
}

func TestLiteralIndexEqualityQueriesBothArgumentOrders(t *testing.T) {
	sig, a := newIndexTestSig()
	fn := sig.InternFunction("c", nil, kernel.SortDefault)
	c1 := a.InternTerm(fn, nil)
	fn2 := sig.InternFunction("d", nil, kernel.SortDefault)
	c2 := a.InternTerm(fn2, nil)

	eq := a.InternLiteral(kernel.PredEquality, true, kernel.SortDefault, []*kernel.Term{c1, c2})
	eqClause := kernel.NewClause([]*kernel.Literal{eq}, kernel.InputAxiom, nil)

	idx := NewLiteralIndex(a, kernel.BankResult)
	idx.Insert(eqClause)

	// Query the negation with arguments swapped: c2 = c1 should still find
	// the indexed c1 = c2 via the commutative retrieval.
	query := a.InternLiteral(kernel.PredEquality, false, kernel.SortDefault, []*kernel.Term{c2, c1})
	results := idx.Query(kernel.BankQuery, query, ModeUnify)
	require.NotEmpty(t, results)
}
