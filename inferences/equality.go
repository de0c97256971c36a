package inferences

import (
	"github.com/petrellabs/saturate/kernel"
)

// EqualityResolution implements spec §4.8's Equality Resolution: for a
// selected negative equality s ≠ t, unify s and t; if successful, emit the
// remaining literals under the unifier. Grounded on
// original_source/Inferences/EqualityResolution.cpp.
type EqualityResolution struct {
	Ctx *Context
}

// Generate produces the equality-resolution result(s) of given, one per
// selected negative equality literal that unifies.
func (e *EqualityResolution) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	sel := given.SelectedLiterals()
	lits := given.Literals()
	for i, l := range sel {
		if !(l.IsEquality() && !l.Positive()) {
			continue
		}
		args := l.Args()
		s := kernel.NewRobSubstitution(e.Ctx.Arena)
		if !s.Unify(args[0], kernel.BankQuery, args[1], kernel.BankQuery) {
			continue
		}
		rn := newRenamer(e.Ctx)
		rest := make([]*kernel.Literal, 0, len(lits)-1)
		for k, other := range lits {
			if k == i {
				continue
			}
			rest = append(rest, rn.renameLiteral(s.ApplyLiteral(other, kernel.BankQuery)))
		}
		if c := buildResult(rest, "equality_resolution", given); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// EqualityFactoring implements spec §4.8's Equality Factoring: for selected
// positive equalities s=t and u=v with s and u unifiable by σ, emit
// (¬(σt=σv) ∨ σu=σv ∨ rest)σ, subject to maximality constraints. Grounded
// on original_source/Inferences/EqualityFactoring.cpp.
type EqualityFactoring struct {
	Ctx *Context
}

// Generate produces every equality-factor of given.
func (e *EqualityFactoring) Generate(given *kernel.Clause) []*kernel.Clause {
	var out []*kernel.Clause
	sel := given.SelectedLiterals()
	for i := range sel {
		for j := range sel {
			if i == j {
				continue
			}
			stLit, uvLit := sel[i], sel[j]
			if !(stLit.IsEquality() && stLit.Positive() && uvLit.IsEquality() && uvLit.Positive()) {
				continue
			}
			out = append(out, e.tryPair(given, stLit, uvLit)...)
		}
	}
	return out
}

// tryPair tries both orientations of stLit's two arguments as the "s" side
// (equality arguments are unordered, spec §4.2), each paired against both
// orientations of uvLit's arguments.
func (e *EqualityFactoring) tryPair(given *kernel.Clause, stLit, uvLit *kernel.Literal) []*kernel.Clause {
	var out []*kernel.Clause
	stArgs, uvArgs := stLit.Args(), uvLit.Args()
	orientations := [][2]int{{0, 1}, {1, 0}}
	for _, so := range orientations {
		s, t := stArgs[so[0]], stArgs[so[1]]
		for _, uo := range orientations {
			u, v := uvArgs[uo[0]], uvArgs[uo[1]]
			if c := e.factorOne(given, stLit, uvLit, s, t, u, v); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *EqualityFactoring) factorOne(given *kernel.Clause, stLit, uvLit *kernel.Literal, s, t, u, v *kernel.Term) *kernel.Clause {
	sub := kernel.NewRobSubstitution(e.Ctx.Arena)
	if !sub.Unify(s, kernel.BankQuery, u, kernel.BankQuery) {
		return nil
	}
	rn := newRenamer(e.Ctx)
	notTV := e.Ctx.Arena.InternLiteral(kernel.PredEquality, false, stLit.EqSort(), []*kernel.Term{
		sub.Apply(t, kernel.BankQuery), sub.Apply(v, kernel.BankQuery),
	})
	uv := e.Ctx.Arena.InternLiteral(kernel.PredEquality, true, uvLit.EqSort(), []*kernel.Term{
		sub.Apply(u, kernel.BankQuery), sub.Apply(v, kernel.BankQuery),
	})
	result := []*kernel.Literal{rn.renameLiteral(notTV), rn.renameLiteral(uv)}
	for _, l := range given.Literals() {
		if l == stLit || l == uvLit {
			continue
		}
		result = append(result, rn.renameLiteral(sub.ApplyLiteral(l, kernel.BankQuery)))
	}
	return buildResult(result, "equality_factoring", given)
}
