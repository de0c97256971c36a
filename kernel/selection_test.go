package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstLiteralSelector(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	l1 := a.InternLiteral(p, true, SortDefault, []*Term{ct})
	q := sig.InternPredicate("q", []SortID{SortDefault})
	l2 := a.InternLiteral(q, true, SortDefault, []*Term{ct})

	cl := NewClause([]*Literal{l1, l2}, InputAxiom, nil)
	prec := NewPrecedence(nil, nil)
	k := NewKBO(sig, prec)

	FirstLiteralSelector{}.Select(cl, k)
	require.Equal(t, 1, cl.Selected())
}

func TestMaximalLiteralSelectorPromotesMaximal(t *testing.T) {
	sig, a := newTestSig()
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	ft := a.InternTerm(f, []*Term{ct})

	p := sig.InternPredicate("p", []SortID{SortDefault})
	// small: p(c); big: p(f(c)) -- same predicate, f(c) is strictly heavier
	// than c so p(f(c)) is the unique maximal literal.
	small := a.InternLiteral(p, true, SortDefault, []*Term{ct})
	big := a.InternLiteral(p, true, SortDefault, []*Term{ft})

	cl := NewClause([]*Literal{small, big}, InputAxiom, nil)
	prec := NewPrecedence(nil, nil)
	k := NewKBO(sig, prec)

	MaximalLiteralSelector{}.Select(cl, k)
	require.Equal(t, 1, cl.Selected())
	require.True(t, cl.SelectedLiterals()[0] == big)
}

func TestMaximalLiteralSelectorKeepsAllWhenIncomparable(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	x, y := a.Var(0), a.Var(1)
	l1 := a.InternLiteral(p, true, SortDefault, []*Term{x})
	l2 := a.InternLiteral(p, true, SortDefault, []*Term{y})

	cl := NewClause([]*Literal{l1, l2}, InputAxiom, nil)
	prec := NewPrecedence(nil, nil)
	k := NewKBO(sig, prec)

	MaximalLiteralSelector{}.Select(cl, k)
	// Distinct variables under the same predicate: neither comparison
	// resolves to LESS in either direction, so both remain candidates for
	// maximality.
	require.Equal(t, 2, cl.Selected())
}
