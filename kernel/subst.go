package kernel

// Bank tags which clause's variables a VarSpec belongs to, so that two
// clauses sharing integer variable identifiers can be unified without
// renaming (spec §3, §4.3).
type Bank uint8

const (
	BankQuery Bank = iota
	BankResult
	BankNormalized
	BankAux
)

// VarSpec is a variable together with the bank it lives in.
type VarSpec struct {
	Var  int
	Bank Bank
}

// TermSpec is a term together with the bank its free variables live in.
type TermSpec struct {
	Term *Term
	Bank Bank
}

// binding is either an alias to another variable spec or a bound term.
type binding struct {
	isTerm bool
	toVar  VarSpec
	toTerm TermSpec
}

type undoOp struct {
	key VarSpec
	had bool
	old binding
}

// RobSubstitution is a backtrackable, banked union-find over variable
// bindings supporting unification, one-way matching, and application (spec
// §3 "Substitution", §4.3). Every mutating operation is recorded on a log;
// Backtrack(mark) undoes everything since mark. Failure never leaves
// partial state: Unify/Match restore their own attempt on failure.
type RobSubstitution struct {
	arena    *Arena
	bindings map[VarSpec]binding
	log      []undoOp
}

// NewRobSubstitution returns an empty substitution over arena's terms.
func NewRobSubstitution(arena *Arena) *RobSubstitution {
	return &RobSubstitution{
		arena:    arena,
		bindings: make(map[VarSpec]binding),
	}
}

// Mark is an opaque backtrack point returned by operations that may need to
// be undone.
type Mark int

// Mark returns the current position in the backtrack log.
func (s *RobSubstitution) Mark() Mark { return Mark(len(s.log)) }

// Backtrack undoes every binding made since mark.
func (s *RobSubstitution) Backtrack(mark Mark) {
	for i := len(s.log) - 1; i >= int(mark); i-- {
		op := s.log[i]
		if op.had {
			s.bindings[op.key] = op.old
		} else {
			delete(s.bindings, op.key)
		}
	}
	s.log = s.log[:mark]
}

// Discard is an alias for Backtrack to the substitution's origin, matching
// the "commit or discard resolves the log" language of spec §3.
func (s *RobSubstitution) Discard() { s.Backtrack(0) }

func (s *RobSubstitution) bind(v VarSpec, b binding) {
	old, had := s.bindings[v]
	s.log = append(s.log, undoOp{key: v, had: had, old: old})
	s.bindings[v] = b
}

// deref follows variable aliases and returns either the ultimate unbound
// VarSpec or the term it is bound to. Path compression is applied to the
// log-tracked bindings map as a plain assignment; since binding new keys
// (rather than mutating found ones) is also logged, compression itself is
// backtrack-safe: a Backtrack to before the compression removes the
// compressed edge and restores the original chain.
func (s *RobSubstitution) deref(v VarSpec) (VarSpec, *TermSpec) {
	visited := []VarSpec{}
	cur := v
	for {
		b, ok := s.bindings[cur]
		if !ok {
			for _, u := range visited {
				if u != cur {
					s.bind(u, binding{isTerm: false, toVar: cur})
				}
			}
			return cur, nil
		}
		if b.isTerm {
			for _, u := range visited {
				s.bind(u, binding{isTerm: true, toTerm: b.toTerm})
			}
			return VarSpec{}, &b.toTerm
		}
		visited = append(visited, cur)
		cur = b.toVar
	}
}

// derefTerm resolves a TermSpec one layer: if its top term is a variable,
// follow bindings; otherwise return it unchanged.
func (s *RobSubstitution) derefTerm(ts TermSpec) (VarSpec, *TermSpec) {
	if !ts.Term.isVar {
		return VarSpec{}, &ts
	}
	return s.deref(VarSpec{Var: ts.Term.varID, Bank: ts.Bank})
}

// Unify destructively unifies a (in bankA) with b (in bankB), with
// occurs-check, logging every binding made. On failure it restores all
// bindings made during the attempt and returns false (spec §4.3).
func (s *RobSubstitution) Unify(a *Term, bankA Bank, b *Term, bankB Bank) bool {
	mark := s.Mark()
	if s.unify(TermSpec{a, bankA}, TermSpec{b, bankB}) {
		return true
	}
	s.Backtrack(mark)
	return false
}

func (s *RobSubstitution) unify(x, y TermSpec) bool {
	xv, xt := s.derefTerm(x)
	yv, yt := s.derefTerm(y)

	xIsVar := xt == nil
	yIsVar := yt == nil

	if xIsVar && yIsVar {
		if xv == yv {
			return true
		}
		s.bind(xv, binding{isTerm: false, toVar: yv})
		return true
	}
	if xIsVar {
		if s.occurs(xv, *yt) {
			return false
		}
		s.bind(xv, binding{isTerm: true, toTerm: *yt})
		return true
	}
	if yIsVar {
		if s.occurs(yv, *xt) {
			return false
		}
		s.bind(yv, binding{isTerm: true, toTerm: *xt})
		return true
	}
	// Both sides are non-variable terms.
	xTerm, yTerm := xt.Term, yt.Term
	if xTerm.functor != yTerm.functor || len(xTerm.args) != len(yTerm.args) {
		return false
	}
	for i := range xTerm.args {
		if !s.unify(TermSpec{xTerm.args[i], xt.Bank}, TermSpec{yTerm.args[i], yt.Bank}) {
			return false
		}
	}
	return true
}

// occurs performs a lazy occurs-check DFS over ts, guarded by a seen-set of
// term pointers so a shared subterm is not revisited (spec §4.3).
func (s *RobSubstitution) occurs(v VarSpec, ts TermSpec) bool {
	seen := make(map[*Term]struct{})
	var walk func(TermSpec) bool
	walk = func(t TermSpec) bool {
		vv, vt := s.derefTerm(t)
		if vt == nil {
			return vv == v
		}
		if vt.Term.isVar {
			return false
		}
		if _, ok := seen[vt.Term]; ok {
			return false
		}
		seen[vt.Term] = struct{}{}
		for _, arg := range vt.Term.args {
			if walk(TermSpec{arg, vt.Bank}) {
				return true
			}
		}
		return false
	}
	return walk(ts)
}

// Match one-way unifies pattern (in bankP) against term (in bankT): only
// pattern-side variables may bind (spec §4.3). It uses a dedicated
// recursive walk rather than union-find, since only one side ever binds.
func (s *RobSubstitution) Match(pattern *Term, bankP Bank, term *Term, bankT Bank) bool {
	mark := s.Mark()
	if s.match(TermSpec{pattern, bankP}, TermSpec{term, bankT}) {
		return true
	}
	s.Backtrack(mark)
	return false
}

func (s *RobSubstitution) match(pattern, term TermSpec) bool {
	if pattern.Term.isVar {
		pv := VarSpec{Var: pattern.Term.varID, Bank: pattern.Bank}
		_, bound := s.deref(pv)
		if bound != nil {
			return s.equalUnderSubst(*bound, term)
		}
		s.bind(pv, binding{isTerm: true, toTerm: term})
		return true
	}
	// pattern is non-variable: term must resolve to a non-variable term
	// with the same functor (matching never binds term-side variables).
	if term.Term.isVar {
		tv := VarSpec{Var: term.Term.varID, Bank: term.Bank}
		_, bound := s.deref(tv)
		if bound == nil {
			return false
		}
		term = *bound
	}
	if term.Term.isVar || pattern.Term.functor != term.Term.functor || len(pattern.Term.args) != len(term.Term.args) {
		return false
	}
	for i := range pattern.Term.args {
		if !s.match(TermSpec{pattern.Term.args[i], pattern.Bank}, TermSpec{term.Term.args[i], term.Bank}) {
			return false
		}
	}
	return true
}

// equalUnderSubst checks whether a bound pattern variable's existing
// binding is compatible with a repeated occurrence in a matching problem.
func (s *RobSubstitution) equalUnderSubst(bound, term TermSpec) bool {
	return s.Apply(bound.Term, bound.Bank) == s.Apply(term.Term, term.Bank)
}

// Apply materializes t under the current bindings in the given bank (spec
// §4.3). The result is a fully-dereferenced, hash-consed term.
func (s *RobSubstitution) Apply(t *Term, bank Bank) *Term {
	if t.isVar {
		_, bound := s.deref(VarSpec{Var: t.varID, Bank: bank})
		if bound == nil {
			return t
		}
		return s.Apply(bound.Term, bound.Bank)
	}
	if len(t.args) == 0 {
		return t
	}
	changed := false
	newArgs := make([]*Term, len(t.args))
	for i, arg := range t.args {
		r := s.Apply(arg, bank)
		newArgs[i] = r
		if r != arg {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return s.arena.InternTerm(t.functor, newArgs)
}

// ApplyLiteral materializes l's arguments under the current bindings.
func (s *RobSubstitution) ApplyLiteral(l *Literal, bank Bank) *Literal {
	newArgs := make([]*Term, len(l.args))
	changed := false
	for i, a := range l.args {
		r := s.Apply(a, bank)
		newArgs[i] = r
		if r != a {
			changed = true
		}
	}
	if !changed {
		return l
	}
	return s.arena.ApplyToLiteral(l, newArgs)
}

// ApplyRenamed is Apply, except that whenever resolution bottoms out at an
// unbound variable, that variable is routed through rename keyed on its
// substitution-canonical VarSpec (the root deref returns) rather than
// returned verbatim. Apply alone cannot be used to combine two premises'
// residues: a variable the unifier identifies across banks derefs to an
// unbound VarSpec that may belong to either premise, and Apply discards
// that VarSpec (see deref's discarded first return value), so two premises
// rendered through independent per-bank renamers lose the link and are
// renamed apart even though the unifier tied them together. Calling
// ApplyRenamed for both premises through one shared rename closure restores
// that link (spec §8 properties 4, 7, 8: the resolvent must be no more
// general than the premises license).
func (s *RobSubstitution) ApplyRenamed(t *Term, bank Bank, rename func(VarSpec) *Term) *Term {
	if t.isVar {
		root, bound := s.deref(VarSpec{Var: t.varID, Bank: bank})
		if bound == nil {
			return rename(root)
		}
		return s.ApplyRenamed(bound.Term, bound.Bank, rename)
	}
	if len(t.args) == 0 {
		return t
	}
	changed := false
	newArgs := make([]*Term, len(t.args))
	for i, arg := range t.args {
		r := s.ApplyRenamed(arg, bank, rename)
		newArgs[i] = r
		if r != arg {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return s.arena.InternTerm(t.functor, newArgs)
}

// ApplyLiteralRenamed is ApplyRenamed lifted to a literal's argument list.
func (s *RobSubstitution) ApplyLiteralRenamed(l *Literal, bank Bank, rename func(VarSpec) *Term) *Literal {
	newArgs := make([]*Term, len(l.args))
	changed := false
	for i, a := range l.args {
		r := s.ApplyRenamed(a, bank, rename)
		newArgs[i] = r
		if r != a {
			changed = true
		}
	}
	if !changed {
		return l
	}
	return s.arena.ApplyToLiteral(l, newArgs)
}
