package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClauseWeightIsSumOfLiteralWeights(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	q := sig.InternPredicate("q", []SortID{SortDefault})

	l1 := a.InternLiteral(p, true, SortDefault, []*Term{ct})
	l2 := a.InternLiteral(q, false, SortDefault, []*Term{ct})

	cl := NewClause([]*Literal{l1, l2}, InputAxiom, nil)
	require.EqualValues(t, l1.Weight()+l2.Weight(), cl.Weight())
	require.Equal(t, len(cl.Literals()), cl.Selected())
}

func TestEmptyClauseIsRefutation(t *testing.T) {
	cl := NewClause(nil, InputNegatedConjecture, nil)
	require.True(t, cl.IsEmpty())
	require.EqualValues(t, 0, cl.Weight())
}

func TestIsTautologyComplementaryPair(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)

	pos := a.InternLiteral(p, true, SortDefault, []*Term{ct})
	neg := a.Complementary(pos)

	cl := NewClause([]*Literal{pos, neg}, InputAxiom, nil)
	require.True(t, cl.IsTautology())
}

func TestIsTautologyReflexiveEquality(t *testing.T) {
	sig, a := newTestSig()
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	refl := a.InternLiteral(PredEquality, true, SortDefault, []*Term{ct, ct})
	p := sig.InternPredicate("p", []SortID{SortDefault})
	other := a.InternLiteral(p, true, SortDefault, []*Term{ct})

	cl := NewClause([]*Literal{refl, other}, InputAxiom, nil)
	require.True(t, cl.IsTautology())
}

func TestRemoveDuplicateLiterals(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	lit := a.InternLiteral(p, true, SortDefault, []*Term{ct})

	cl := NewClause([]*Literal{lit, lit}, InputAxiom, nil)
	deduped := cl.RemoveDuplicateLiterals()
	require.Equal(t, 1, deduped.Len())

	q := sig.InternPredicate("q", []SortID{SortDefault})
	other := a.InternLiteral(q, true, SortDefault, []*Term{ct})
	cl2 := NewClause([]*Literal{lit, other}, InputAxiom, nil)
	require.True(t, cl2.RemoveDuplicateLiterals() == cl2, "no duplicates: same clause returned")
}

func TestAgeFromPremisesSaturates(t *testing.T) {
	a1 := NewClause(nil, InputAxiom, nil)
	a1.SetAge(MaxAgeUint32)
	a2 := NewClause(nil, InputAxiom, nil)
	a2.SetAge(3)

	require.Equal(t, MaxAgeUint32, AgeFromPremises(a1, a2))
	require.EqualValues(t, 4, AgeFromPremises(a2))
}

func TestRetainReleaseRefCount(t *testing.T) {
	cl := NewClause(nil, InputAxiom, nil)
	require.Equal(t, 0, cl.RefCount())
	cl.Retain()
	cl.Retain()
	require.Equal(t, 2, cl.RefCount())
	cl.Release()
	require.Equal(t, 1, cl.RefCount())
	require.Panics(t, func() {
		cl.Release()
		cl.Release()
	})
}

func TestSetSelectedRange(t *testing.T) {
	sig, a := newTestSig()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)
	lit := a.InternLiteral(p, true, SortDefault, []*Term{ct})
	cl := NewClause([]*Literal{lit}, InputAxiom, nil)

	require.Panics(t, func() { cl.SetSelected(2) })
	cl.SetSelected(0)
	require.Equal(t, 0, cl.Selected())
}
