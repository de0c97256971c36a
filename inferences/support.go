// Package inferences implements the generating and simplifying inference
// rules of spec §4.8: binary resolution, factoring, superposition, equality
// resolution/factoring, forward demodulation, forward subsumption,
// subsumption resolution, and global subsumption. Each rule is grounded on
// its counterpart in original_source/Inferences, expressed with the
// indexing package for candidate retrieval and kernel.RobSubstitution for
// the exact unify/match check.
package inferences

import (
	"github.com/petrellabs/saturate/kernel"
)

// Context bundles the shared machinery every inference rule needs: the
// arena/signature pair terms live in, and the simplification ordering used
// for maximality and orientation checks. Individual rules additionally take
// the specific indices they query (spec §4.8: "Engines receive references
// to their required indices at setup").
type Context struct {
	Arena *kernel.Arena
	Sig   *kernel.Signature
	Ord   *kernel.KBO
}

// renamer maps one premise's variable identifiers to freshly allocated ones
// shared by no other premise, so that combining literals drawn (after
// substitution) from two different clauses can never accidentally capture
// or merge unrelated variables that happened to share a numeric id in their
// respective source clauses. rename/renameLiteral key purely on a term's raw
// variable id and are only safe when every literal passed through one
// renamer instance was materialized (via Apply/ApplyLiteral) in the same
// bank throughout — true of factoring and equality resolution/factoring,
// which only ever combine literals of one clause under kernel.BankQuery.
// Rules that combine residues unified across two different premises (binary
// resolution, superposition) must instead use freshFor, keyed on the
// substitution's canonical (bank, var) representative via
// RobSubstitution.ApplyRenamed/ApplyLiteralRenamed, so that a variable the
// unifier identifies across both premises renames to the same fresh
// variable wherever it surfaces (spec §8 properties 4, 7, 8).
type renamer struct {
	sig        *kernel.Signature
	arena      *kernel.Arena
	seen       map[int]*kernel.Term
	sharedSeen map[kernel.VarSpec]*kernel.Term
}

func newRenamer(ctx *Context) *renamer {
	return &renamer{
		sig:        ctx.Sig,
		arena:      ctx.Arena,
		seen:       make(map[int]*kernel.Term),
		sharedSeen: make(map[kernel.VarSpec]*kernel.Term),
	}
}

// freshFor returns r's stable replacement for v, allocating one the first
// time v is seen, so that every reference to the same substitution-
// canonical variable — however many literals or banks it surfaces through —
// renames to one shared fresh variable.
func (r *renamer) freshFor(v kernel.VarSpec) *kernel.Term {
	t, ok := r.sharedSeen[v]
	if !ok {
		t = r.arena.Var(r.sig.FreshVarID())
		r.sharedSeen[v] = t
	}
	return t
}

func (r *renamer) rename(t *kernel.Term) *kernel.Term {
	if t.IsVar() {
		fresh, ok := r.seen[t.VarID()]
		if !ok {
			fresh = r.arena.Var(r.sig.FreshVarID())
			r.seen[t.VarID()] = fresh
		}
		return fresh
	}
	args := t.Args()
	if len(args) == 0 {
		return t
	}
	newArgs := make([]*kernel.Term, len(args))
	changed := false
	for i, a := range args {
		newArgs[i] = r.rename(a)
		if newArgs[i] != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return r.arena.InternTerm(t.Functor(), newArgs)
}

func (r *renamer) renameLiteral(l *kernel.Literal) *kernel.Literal {
	args := l.Args()
	newArgs := make([]*kernel.Term, len(args))
	changed := false
	for i, a := range args {
		newArgs[i] = r.rename(a)
		if newArgs[i] != a {
			changed = true
		}
	}
	if !changed {
		return l
	}
	return r.arena.ApplyToLiteral(l, newArgs)
}

// applyAndRename applies s to every literal of lits (interpreted in bank)
// and renames the survivors' free variables through r's shared, bank-aware
// map, resolving each one to its substitution-canonical representative
// first. Calling this with the same renamer r for both premises' residues
// (as BinaryResolution.Generate does) is what keeps a variable the unifier
// identified across the two premises shared in the combined result.
func applyAndRename(s *kernel.RobSubstitution, bank kernel.Bank, lits []*kernel.Literal, r *renamer) []*kernel.Literal {
	out := make([]*kernel.Literal, len(lits))
	for i, l := range lits {
		out[i] = s.ApplyLiteralRenamed(l, bank, r.freshFor)
	}
	return out
}

// buildResult assembles a result clause from lits: duplicate-literal
// removal, tautology discard (returns nil in that case, meaning "no
// clause produced" — spec §4.8's inferences discard tautologies rather
// than emit them), and inference bookkeeping (rule name, premises, age).
func buildResult(lits []*kernel.Literal, rule string, premises ...*kernel.Clause) *kernel.Clause {
	c := kernel.NewClause(lits, kernel.InputAxiom, &kernel.Inference{Rule: rule, Premises: premises})
	if c.IsTautology() {
		return nil
	}
	c = c.RemoveDuplicateLiterals()
	c.SetAge(kernel.AgeFromPremises(premises...))
	return c
}

// withoutIndex returns lits with the literal at index i removed.
func withoutIndex(lits []*kernel.Literal, i int) []*kernel.Literal {
	out := make([]*kernel.Literal, 0, len(lits)-1)
	for j, l := range lits {
		if j != i {
			out = append(out, l)
		}
	}
	return out
}
