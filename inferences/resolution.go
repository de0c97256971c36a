package inferences

import (
	"github.com/petrellabs/saturate/indexing"
	"github.com/petrellabs/saturate/kernel"
)

// BinaryResolution implements spec §4.8's Binary Resolution rule: for each
// selected literal L of the given clause, query the literal index for
// unifiers of ¬L, and for each match (M, C, σ) produce (given \ {L}) ∪
// (C \ {M})σ. Grounded on original_source/Inferences/BinaryResolution.cpp's
// shape (query complementary header, apply unifier to both remainders).
type BinaryResolution struct {
	Ctx     *Context
	Literal *indexing.LiteralIndex // indexes Active clauses' literals, inBank = BankResult
}

// Generate produces every binary-resolution result from given against the
// literal index's current contents.
func (r *BinaryResolution) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	lits := given.SelectedLiterals()
	for i, l := range lits {
		results := r.Literal.Query(kernel.BankQuery, l, indexing.ModeUnify)
		for _, res := range results {
			if res.Leaf.Clause == given {
				continue
			}
			m := res.Leaf.Literal
			mClause := res.Leaf.Clause
			mIdx := literalIndexOf(mClause, m)
			if mIdx < 0 {
				continue
			}
			// One renamer shared across both premises' residues: a variable
			// the unifier identifies between given and mClause must rename to
			// the same fresh variable on both sides, or the resolvent is
			// strictly more general than the premises license.
			rn := newRenamer(r.Ctx)
			givenRest := applyAndRename(res.Subst, kernel.BankQuery, withoutIndex(given.Literals(), i), rn)
			otherRest := applyAndRename(res.Subst, kernel.BankResult, withoutIndex(mClause.Literals(), mIdx), rn)
			combined := append(givenRest, otherRest...)
			if c := buildResult(combined, "resolution", given, mClause); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// literalIndexOf finds the position of l within c's literal slice by
// pointer identity (literals are hash-consed, so this is exact).
func literalIndexOf(c *kernel.Clause, l *kernel.Literal) int {
	for i, x := range c.Literals() {
		if x == l {
			return i
		}
	}
	return -1
}
