package intake

import (
	"strings"
	"testing"

	"github.com/petrellabs/saturate/kernel"
	"github.com/stretchr/testify/require"
)

func TestParseClausesBasic(t *testing.T) {
	sig := kernel.NewSignature()
	p := NewParser(sig)
	src := `
; a comment line
axiom p(a) | ~q(X)
negated_conjecture ~p(a)
axiom f(X) = g(X,a)
axiom f(a) != b
`
	clauses, err := p.ParseClauses(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, clauses, 4)

	c0 := clauses[0]
	require.Equal(t, kernel.InputAxiom, c0.InputType())
	require.Len(t, c0.Literals(), 2)
	require.True(t, c0.Literals()[0].Positive())
	require.False(t, c0.Literals()[1].Positive())

	c1 := clauses[1]
	require.Equal(t, kernel.InputNegatedConjecture, c1.InputType())
	require.False(t, c1.Literals()[0].Positive())

	c2 := clauses[2]
	require.True(t, c2.Literals()[0].IsEquality())
	require.True(t, c2.Literals()[0].Positive())

	c3 := clauses[3]
	require.True(t, c3.Literals()[0].IsEquality())
	require.False(t, c3.Literals()[0].Positive())
}

func TestParseClausesSharesSymbolsAcrossLines(t *testing.T) {
	sig := kernel.NewSignature()
	p := NewParser(sig)
	src := "axiom p(a)\naxiom p(b)\n"
	clauses, err := p.ParseClauses(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, clauses[0].Literals()[0].Predicate(), clauses[1].Literals()[0].Predicate())
}

func TestParseClausesVariableScopedPerLine(t *testing.T) {
	sig := kernel.NewSignature()
	p := NewParser(sig)
	src := "axiom p(X)\naxiom q(X)\n"
	clauses, err := p.ParseClauses(strings.NewReader(src))
	require.NoError(t, err)
	v0 := clauses[0].Literals()[0].Args()[0]
	v1 := clauses[1].Literals()[0].Args()[0]
	require.NotEqual(t, v0.VarID(), v1.VarID())
}

func TestParseClausesRejectsUppercasePredicate(t *testing.T) {
	sig := kernel.NewSignature()
	p := NewParser(sig)
	_, err := p.ParseClauses(strings.NewReader("axiom P(a)\n"))
	require.Error(t, err)
}

func TestParseClausesRejectsUnknownInputType(t *testing.T) {
	sig := kernel.NewSignature()
	p := NewParser(sig)
	_, err := p.ParseClauses(strings.NewReader("theorem p(a)\n"))
	require.Error(t, err)
}
