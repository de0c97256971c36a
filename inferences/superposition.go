package inferences

import (
	"github.com/petrellabs/saturate/indexing"
	"github.com/petrellabs/saturate/kernel"
)

// EquationIndex indexes the two arguments of every active clause's
// selected positive equality literal, keyed by sort, so a candidate
// rewrite target can look up which equations might apply to it by
// unifying against either side (equality's arguments are unordered
// content, spec §4.2). Grounded on
// original_source/Indexing/Indexing.cpp's separate "LHS index" maintained
// alongside the general subterm index for superposition's two distinct
// query directions.
type EquationIndex struct {
	arena  *kernel.Arena
	forest map[kernel.SortID]*indexing.Tree
}

// NewEquationIndex returns an empty equation index over arena. Indexed
// entries are interpreted in kernel.BankResult.
func NewEquationIndex(arena *kernel.Arena) *EquationIndex {
	return &EquationIndex{arena: arena, forest: make(map[kernel.SortID]*indexing.Tree)}
}

func (idx *EquationIndex) treeFor(sort kernel.SortID) *indexing.Tree {
	t, ok := idx.forest[sort]
	if !ok {
		t = indexing.NewTree()
		idx.forest[sort] = t
	}
	return t
}

func sortOfTerm(sig *kernel.Signature, t *kernel.Term) kernel.SortID {
	if t.IsVar() {
		return kernel.SortDefault
	}
	return sig.Function(t.Functor()).RetSort
}

// Insert indexes both arguments of every selected positive equality literal
// of clause.
func (idx *EquationIndex) Insert(sig *kernel.Signature, clause *kernel.Clause) {
	for _, l := range clause.SelectedLiterals() {
		if !l.IsEquality() || !l.Positive() {
			continue
		}
		for _, side := range l.Args() {
			idx.treeFor(sortOfTerm(sig, side)).Insert([]*kernel.Term{side}, indexing.LeafData{Clause: clause, Literal: l, Term: side})
		}
	}
}

// Remove undoes Insert for clause.
func (idx *EquationIndex) Remove(sig *kernel.Signature, clause *kernel.Clause) {
	for _, l := range clause.SelectedLiterals() {
		if !l.IsEquality() || !l.Positive() {
			continue
		}
		for _, side := range l.Args() {
			idx.treeFor(sortOfTerm(sig, side)).Remove([]*kernel.Term{side}, indexing.LeafData{Clause: clause, Literal: l, Term: side})
		}
	}
}

// Query retrieves equation sides that unify with term.
func (idx *EquationIndex) Query(sig *kernel.Signature, queryBank kernel.Bank, term *kernel.Term) []indexing.Result {
	t, ok := idx.forest[sortOfTerm(sig, term)]
	if !ok {
		return nil
	}
	return t.Retrieve(idx.arena, []*kernel.Term{term}, queryBank, kernel.BankResult, indexing.ModeUnify)
}

// Superposition implements spec §4.8's Superposition rule in both
// directions it describes: the given clause supplying the rewriting
// equation (queries Subterms for a unifiable active-clause occurrence), and
// the given clause supplying the rewrite target (queries Equations for a
// unifiable active-clause equation). Grounded on
// original_source/Inferences/Superposition.cpp's two entry points
// (forward/backward superposition sharing one rewrite core).
type Superposition struct {
	Ctx       *Context
	Subterms  *indexing.TermIndex // indexes Active clauses' subterms, inBank = BankResult
	Equations *EquationIndex      // indexes Active clauses' positive equalities, inBank = BankResult
}

// Generate produces every superposition result reachable from given.
func (sp *Superposition) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	out = append(out, sp.asEquationSource(given)...)
	out = append(out, sp.asRewriteTarget(given)...)
	return out
}

// orientedSides returns the (s, t) candidate pairs for an equality literal
// where s is not smaller than t under the ordering: the oriented pair when
// KBO can orient it, both pairs when it cannot (spec §4.8: "s is maximal
// w.r.t. the ordering and not smaller than t").
func orientedSides(ord *kernel.KBO, l *kernel.Literal) [][2]*kernel.Term {
	args := l.Args()
	oriented, gt := ord.Orient(l)
	if oriented {
		if gt {
			return [][2]*kernel.Term{{args[0], args[1]}}
		}
		return [][2]*kernel.Term{{args[1], args[0]}}
	}
	return [][2]*kernel.Term{{args[0], args[1]}, {args[1], args[0]}}
}

// asEquationSource handles given supplying the positive equality s=t;
// active clauses supply the rewritable subterm u.
func (sp *Superposition) asEquationSource(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	for _, l := range given.SelectedLiterals() {
		if !l.IsEquality() || !l.Positive() {
			continue
		}
		for _, st := range orientedSides(sp.Ctx.Ord, l) {
			s, t := st[0], st[1]
			results := sp.Subterms.Query(kernel.BankQuery, sp.Ctx.Sig, s, indexing.ModeUnify)
			for _, res := range results {
				if res.Leaf.Term == nil || res.Leaf.Term.IsVar() || res.Leaf.Clause == given {
					continue
				}
				if c := sp.combine(given, l, s, t, res.Subst, kernel.BankQuery, res.Leaf.Clause, res.Leaf.Literal, res.Leaf.Term, kernel.BankResult); c != nil {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// asRewriteTarget handles given supplying the rewritable subterm u; active
// clauses supply the positive equality s=t.
func (sp *Superposition) asRewriteTarget(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	for _, l := range given.SelectedLiterals() {
		for _, arg := range l.Args() {
			arg.Subterms(func(u *kernel.Term, _ []int) bool {
				results := sp.Equations.Query(sp.Ctx.Sig, kernel.BankQuery, u)
				for _, res := range results {
					if res.Leaf.Clause == given {
						continue
					}
					s := res.Leaf.Term
					t := otherSide(res.Leaf.Literal, s)
					if c := sp.combine(res.Leaf.Clause, res.Leaf.Literal, s, t, res.Subst, kernel.BankResult, given, l, u, kernel.BankQuery); c != nil {
						out = append(out, c)
					}
				}
				return false
			})
		}
	}
	return out
}

func otherSide(eq *kernel.Literal, side *kernel.Term) *kernel.Term {
	args := eq.Args()
	if args[0] == side {
		return args[1]
	}
	return args[0]
}

// combine performs the actual rewrite and assembles the result clause:
// replace the occurrence of u (from targetBank) with σ(t) inside
// targetLit, union with (eqClause \ {eqLit})σ and (targetClause \
// {targetLit})σ, variables of the two premises renamed apart through one
// shared renamer. eqBank/targetBank identify which bank each premise's
// literals were unified under, since the two call sites use opposite
// assignments of BankQuery/BankResult.
//
// The rewrite splice itself (replacing σ(u) with σ(t) inside the target's
// arguments) must happen on terms already rendered through that one shared
// renamer, not on raw sigma.Apply output: σ(t) and the target's other
// arguments can themselves share a variable the unifier tied together
// across eqClause and targetClause (spec §8 scenario (c)'s associativity/
// inverse superposition depends on exactly this), and rendering each side
// through its own renamer — or renaming only after the splice — would
// split that shared variable into two unrelated fresh ones, silently
// generalizing the result beyond what the premises license.
func (sp *Superposition) combine(
	eqClause *kernel.Clause, eqLit *kernel.Literal, s, t *kernel.Term,
	sigma *kernel.RobSubstitution, eqBank kernel.Bank,
	targetClause *kernel.Clause, targetLit *kernel.Literal, u *kernel.Term, targetBank kernel.Bank,
) *kernel.Clause {
	sigmaS := sigma.Apply(s, eqBank)
	sigmaT := sigma.Apply(t, eqBank)
	if sp.Ctx.Ord.Compare(sigmaS, sigmaT) == kernel.OrdLess {
		return nil // ordering post-check: rewrite must not be demonstrably increasing
	}

	rn := newRenamer(sp.Ctx)
	renamedU := sigma.ApplyRenamed(u, targetBank, rn.freshFor)
	renamedT := sigma.ApplyRenamed(t, eqBank, rn.freshFor)
	appliedTarget := sigma.ApplyLiteralRenamed(targetLit, targetBank, rn.freshFor)
	rewrittenArgs := make([]*kernel.Term, len(appliedTarget.Args()))
	for i, a := range appliedTarget.Args() {
		rewrittenArgs[i] = sp.Ctx.Arena.Replace(a, renamedU, renamedT)
	}
	rewrittenLit := sp.Ctx.Arena.ApplyToLiteral(appliedTarget, rewrittenArgs)

	result := []*kernel.Literal{rewrittenLit}
	for _, l := range withoutLiteral(eqClause.Literals(), eqLit) {
		result = append(result, sigma.ApplyLiteralRenamed(l, eqBank, rn.freshFor))
	}
	for _, l := range withoutLiteral(targetClause.Literals(), targetLit) {
		result = append(result, sigma.ApplyLiteralRenamed(l, targetBank, rn.freshFor))
	}
	return buildResult(result, "superposition", eqClause, targetClause)
}

func withoutLiteral(lits []*kernel.Literal, drop *kernel.Literal) []*kernel.Literal {
	out := make([]*kernel.Literal, 0, len(lits)-1)
	for _, l := range lits {
		if l != drop {
			out = append(out, l)
		}
	}
	return out
}
