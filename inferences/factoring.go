package inferences

import (
	"github.com/petrellabs/saturate/kernel"
)

// Factoring implements spec §4.8's Factoring rule: for each ordered pair
// (L_i, L_j) of selected literals with the same polarity and predicate,
// unify them and produce the smaller factor, gated by a maximality
// aftercheck. Grounded on
// original_source/Inferences/EqualityFactoring.cpp's sibling,
// Factoring.cpp (ordered-pair iteration over one clause's own selected
// literals, no index involved).
type Factoring struct {
	Ctx *Context
}

// Generate produces every factor of given.
func (f *Factoring) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	sel := given.SelectedLiterals()
	for i := range sel {
		for j := range sel {
			if i == j {
				continue
			}
			li, lj := sel[i], sel[j]
			if li.Positive() != lj.Positive() || li.Predicate() != lj.Predicate() {
				continue
			}
			if c := f.factor(given, i, j); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

func (f *Factoring) factor(given *kernel.Clause, i, j int) *kernel.Clause {
	lits := given.Literals()
	li, lj := lits[i], lits[j]

	s := kernel.NewRobSubstitution(f.Ctx.Arena)
	if !unifyLiterals(s, li, kernel.BankQuery, lj, kernel.BankQuery) {
		return nil
	}

	rn := newRenamer(f.Ctx)
	kept := make([]*kernel.Literal, 0, len(lits)-1)
	for k, l := range lits {
		if k == j {
			continue
		}
		kept = append(kept, rn.renameLiteral(s.ApplyLiteral(l, kernel.BankQuery)))
	}
	appliedLi := rn.renameLiteral(s.ApplyLiteral(li, kernel.BankQuery))
	if !f.maximalityAftercheck(appliedLi, kept) {
		return nil
	}
	return buildResult(kept, "factoring", given)
}

// maximalityAftercheck confirms the surviving, post-unification literal
// li is still maximal among the result's literals — required to preserve
// completeness when the selection strategy only ever selected maximal
// literals (spec §4.8's "Completeness aftercheck").
func (f *Factoring) maximalityAftercheck(li *kernel.Literal, rest []*kernel.Literal) bool {
	for _, other := range rest {
		if other == li {
			continue
		}
		if f.Ctx.Ord.CompareLiterals(li, other) == kernel.OrdLess {
			return false
		}
	}
	return true
}

// unifyLiterals unifies two literals' argument lists pairwise under a
// shared substitution, used where both literals are interpreted in the same
// bank (e.g. factoring, which pairs two literals of a single clause).
func unifyLiterals(s *kernel.RobSubstitution, a *kernel.Literal, bankA kernel.Bank, b *kernel.Literal, bankB kernel.Bank) bool {
	argsA, argsB := a.Args(), b.Args()
	if len(argsA) != len(argsB) {
		return false
	}
	mark := s.Mark()
	for i := range argsA {
		if !s.Unify(argsA[i], bankA, argsB[i], bankB) {
			s.Backtrack(mark)
			return false
		}
	}
	return true
}
