package satbackend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDPLLSatisfiable(t *testing.T) {
	d := NewDPLL(nil)
	// (x1 | x2) & (~x1 | x2)
	d.AddClause([]int{1, 2})
	d.AddClause([]int{-1, 2})
	require.True(t, d.Solve(nil))
}

func TestDPLLUnsatisfiableUnderAssumption(t *testing.T) {
	d := NewDPLL(nil)
	// x1
	d.AddClause([]int{1})
	// Assuming ~x1 must be unsatisfiable.
	require.False(t, d.Solve([]int{-1}))
	require.True(t, d.Solve([]int{1}))
}

func TestDPLLUnsatisfiableClauseSet(t *testing.T) {
	d := NewDPLL(nil)
	d.AddClause([]int{1})
	d.AddClause([]int{-1})
	require.False(t, d.Solve(nil))
}

func TestDPLLEmptyTheorySatisfiable(t *testing.T) {
	d := NewDPLL(nil)
	require.True(t, d.Solve(nil))
}

func TestParseAndWriteDIMACSRoundTrip(t *testing.T) {
	src := "p cnf 2 2\n1 2 0\n-1 2 0\n"
	clauses, err := ParseDIMACS(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2}, {-1, 2}}, clauses)

	var buf strings.Builder
	require.NoError(t, WriteDIMACS(&buf, clauses))
	roundTripped, err := ParseDIMACS(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, clauses, roundTripped)
}
