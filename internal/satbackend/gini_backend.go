package satbackend

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
)

// GiniBackend is a Backend over a real incremental CDCL SAT solver, the
// path to genuine incrementality DPLL's re-solve-from-scratch approach
// only approximates. Grounded on operator-lifecycle-manager's
// pkg/controller/registry/resolver/sat/solve.go: gini.New() for the solver
// handle, Add/Assume/Solve/Value for the DIMACS-style signed-int protocol.
type GiniBackend struct {
	g inter.S
}

// NewGiniBackend returns an empty GiniBackend.
func NewGiniBackend() *GiniBackend {
	return &GiniBackend{g: gini.New()}
}

// AddClause asserts lits (DIMACS convention: negative means negated) as a
// permanent clause.
func (b *GiniBackend) AddClause(lits []int) {
	for _, lit := range lits {
		b.g.Add(z.Dimacs2Lit(lit))
	}
	b.g.Add(z.LitNull)
}

// Solve reports whether the accumulated clauses are satisfiable with every
// literal of assumptions additionally forced true.
func (b *GiniBackend) Solve(assumptions []int) bool {
	lits := make([]z.Lit, len(assumptions))
	for i, a := range assumptions {
		lits[i] = z.Dimacs2Lit(a)
	}
	b.g.Assume(lits...)
	return b.g.Solve() == 1
}
