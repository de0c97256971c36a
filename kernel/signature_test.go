package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreshSymbolsAreIntroducedAndUnique(t *testing.T) {
	sig := NewSignature()
	f1 := sig.FreshFunction("sk", []SortID{SortDefault}, SortDefault)
	f2 := sig.FreshFunction("sk", []SortID{SortDefault}, SortDefault)
	require.NotEqual(t, f1, f2)
	require.True(t, sig.Function(f1).Flags.Introduced)
	require.True(t, sig.Function(f2).Flags.Introduced)

	p1 := sig.FreshPredicate("sp", []SortID{SortDefault})
	require.True(t, sig.Predicate(p1).Flags.Introduced)
}

func TestDeclareSort(t *testing.T) {
	sig := NewSignature()
	s := sig.DeclareSort("iota")
	require.Equal(t, "iota", sig.SortName(s))
}

func TestSetFunctionWeightAffectsSubsequentInterning(t *testing.T) {
	sig := NewSignature()
	a := sig.Arena()
	f := sig.InternFunction("f", []SortID{SortDefault}, SortDefault)
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)

	sig.SetFunctionWeight(f, 7)
	ft := a.InternTerm(f, []*Term{ct})
	require.EqualValues(t, 8, ft.Weight()) // 7 + weight(c)=1
}

func TestUsageCountTracksInterning(t *testing.T) {
	sig := NewSignature()
	a := sig.Arena()
	p := sig.InternPredicate("p", []SortID{SortDefault})
	c := sig.InternFunction("c", nil, SortDefault)
	ct := a.InternTerm(c, nil)

	a.InternLiteral(p, true, SortDefault, []*Term{ct})
	a.InternLiteral(p, false, SortDefault, []*Term{ct}) // same args, different polarity: distinct literal
	require.EqualValues(t, 2, sig.Predicate(p).UsageCount())
}
