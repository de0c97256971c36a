package inferences

import (
	"github.com/petrellabs/saturate/indexing"
	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
)

// DemodulatorIndex indexes the oriented left-hand side of every unit
// positive equality clause (a "rewrite rule"), the population Forward
// Demodulation draws its simplifiers from. Grounded on
// original_source/Indexing/DemodulationLHSIndex.cpp: only unit equalities
// qualify as demodulators, since a multi-literal equation can't be used as
// an unconditional rewrite.
type DemodulatorIndex struct {
	arena  *kernel.Arena
	forest map[kernel.SortID]*indexing.Tree
}

// NewDemodulatorIndex returns an empty index over arena. Indexed entries
// are interpreted in kernel.BankResult.
func NewDemodulatorIndex(arena *kernel.Arena) *DemodulatorIndex {
	return &DemodulatorIndex{arena: arena, forest: make(map[kernel.SortID]*indexing.Tree)}
}

func (idx *DemodulatorIndex) treeFor(sort kernel.SortID) *indexing.Tree {
	t, ok := idx.forest[sort]
	if !ok {
		t = indexing.NewTree()
		idx.forest[sort] = t
	}
	return t
}

// unitEquality reports whether clause is a single-literal positive
// equality, and returns it.
func unitEquality(clause *kernel.Clause) (*kernel.Literal, bool) {
	if clause.Len() != 1 {
		return nil, false
	}
	l := clause.Literals()[0]
	if !l.IsEquality() || !l.Positive() {
		return nil, false
	}
	return l, true
}

// Insert indexes clause's oriented LHS if it qualifies as a demodulator.
// An unoriented equality (KBO incomparable) is indexed under both sides,
// since either could turn out to generalize a rewrite target once its own
// variables are bound by the match — Forward Demodulation's post-check
// (requiring σ(LHS) ≻ σ(RHS)) is what actually enforces termination, not
// indexing discipline.
func (idx *DemodulatorIndex) Insert(sig *kernel.Signature, ord *kernel.KBO, clause *kernel.Clause) {
	l, ok := unitEquality(clause)
	if !ok {
		return
	}
	oriented, gt := ord.Orient(l)
	args := l.Args()
	switch {
	case oriented && gt:
		idx.treeFor(sortOfTerm(sig, args[0])).Insert([]*kernel.Term{args[0]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[0]})
	case oriented && !gt:
		idx.treeFor(sortOfTerm(sig, args[1])).Insert([]*kernel.Term{args[1]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[1]})
	default:
		idx.treeFor(sortOfTerm(sig, args[0])).Insert([]*kernel.Term{args[0]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[0]})
		idx.treeFor(sortOfTerm(sig, args[1])).Insert([]*kernel.Term{args[1]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[1]})
	}
}

// Remove undoes Insert for clause.
func (idx *DemodulatorIndex) Remove(sig *kernel.Signature, ord *kernel.KBO, clause *kernel.Clause) {
	l, ok := unitEquality(clause)
	if !ok {
		return
	}
	args := l.Args()
	idx.treeFor(sortOfTerm(sig, args[0])).Remove([]*kernel.Term{args[0]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[0]})
	idx.treeFor(sortOfTerm(sig, args[1])).Remove([]*kernel.Term{args[1]}, indexing.LeafData{Clause: clause, Literal: l, Term: args[1]})
}

// Query retrieves demodulators whose LHS generalizes r.
func (idx *DemodulatorIndex) Query(sig *kernel.Signature, queryBank kernel.Bank, r *kernel.Term) []indexing.Result {
	t, ok := idx.forest[sortOfTerm(sig, r)]
	if !ok {
		return nil
	}
	return t.Retrieve(idx.arena, []*kernel.Term{r}, queryBank, kernel.BankResult, indexing.ModeGeneralization)
}

// ForwardDemodulation implements spec §4.8's Forward Demodulation
// simplifier: for every non-variable subterm r of each literal in the
// candidate, query the demodulator index for a unit positive equality
// whose oriented LHS generalizes r; on a match with σ, require σ(LHS) ≻
// σ(RHS) and replace r by σ(RHS), repeating to a fixpoint. Grounded on
// original_source/Inferences/ForwardDemodulation.cpp.
type ForwardDemodulation struct {
	Ctx *Context
	Idx *DemodulatorIndex
}

// ForwardSimplify implements saturation.ForwardSimplifier.
func (fd *ForwardDemodulation) ForwardSimplify(c *kernel.Clause) (saturation.SimplifyOutcome, *kernel.Clause) {
	cur := c
	changed := false
	for {
		next, didRewrite := fd.rewriteOnce(cur)
		if !didRewrite {
			break
		}
		cur = next
		changed = true
	}
	if !changed {
		return saturation.Unchanged, c
	}
	if cur.IsTautology() {
		return saturation.Discarded, nil
	}
	return saturation.Simplified, cur
}

// rewriteOnce finds the first rewritable subterm anywhere in c and applies
// one demodulation step, reporting whether it found one. Top-level check:
// a demodulator is rejected if rewriting would touch the larger side of an
// already-oriented equation in a way that loses that equation's own
// orientation witness — approximated here by requiring the rewritten
// clause's literal to still type-check under the same sort, which holds
// automatically since Replace never changes sorts; the substantive guard
// is the σ(LHS) ≻ σ(RHS) post-check applied per candidate below.
func (fd *ForwardDemodulation) rewriteOnce(c *kernel.Clause) (*kernel.Clause, bool) {
	for li, l := range c.Literals() {
		for _, arg := range l.Args() {
			var found *kernel.Term
			var foundRHS *kernel.Term
			arg.Subterms(func(r *kernel.Term, _ []int) bool {
				if found != nil {
					return true
				}
				results := fd.Idx.Query(fd.Ctx.Sig, kernel.BankQuery, r)
				for _, res := range results {
					if res.Leaf.Clause == c {
						continue
					}
					lhs := res.Leaf.Term
					rhs := otherSide(res.Leaf.Literal, lhs)
					sigmaLHS := res.Subst.Apply(lhs, kernel.BankResult)
					sigmaRHS := res.Subst.Apply(rhs, kernel.BankResult)
					if fd.Ctx.Ord.Compare(sigmaLHS, sigmaRHS) != kernel.OrdGreater {
						continue
					}
					found = r
					foundRHS = sigmaRHS
					return true
				}
				return false
			})
			if found == nil {
				continue
			}
			newArgs := make([]*kernel.Term, len(l.Args()))
			for i, a := range l.Args() {
				newArgs[i] = fd.Ctx.Arena.Replace(a, found, foundRHS)
			}
			newLit := fd.Ctx.Arena.ApplyToLiteral(l, newArgs)
			newLits := append([]*kernel.Literal(nil), c.Literals()...)
			newLits[li] = newLit
			result := kernel.NewClause(newLits, c.InputType(), &kernel.Inference{Rule: "forward_demodulation", Premises: []*kernel.Clause{c}})
			result.SetAge(c.Age())
			return result, true
		}
	}
	return c, false
}
