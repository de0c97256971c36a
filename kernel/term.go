package kernel

import (
	"fmt"
	"strings"
)

// DefaultVariableWeight is the uniform per-occurrence weight assigned to a
// variable when computing a term's cached weight (spec §4.2/§4.4). It is
// independent of any particular KBO configuration's own variable weight,
// which the ordering's traversal computes explicitly rather than trusting
// this cache (see kbo.go); the cache exists for clause-weight bookkeeping
// (spec §3), which does not need to be ordering-accurate.
const DefaultVariableWeight = 1

// Term is either a variable or an application of a function symbol to an
// ordered argument list. Ground, structurally-equal terms share identity:
// two calls to Arena.InternTerm with equal keys return the same *Term.
// A Term is immutable after it is returned from the arena.
type Term struct {
	isVar   bool
	varID   int
	functor FunctionID
	args    []*Term

	weight uint32
	ground bool
}

// IsVar reports whether t is a variable.
func (t *Term) IsVar() bool { return t.isVar }

// VarID returns the variable identifier. Panics if t is not a variable.
func (t *Term) VarID() int {
	if !t.isVar {
		panic("kernel: VarID of non-variable term")
	}
	return t.varID
}

// Functor returns the function symbol of an application term. Panics if t
// is a variable.
func (t *Term) Functor() FunctionID {
	if t.isVar {
		panic("kernel: Functor of variable term")
	}
	return t.functor
}

// Args returns the argument list of an application term (nil for a
// variable or a 0-arity constant).
func (t *Term) Args() []*Term { return t.args }

// IsGround reports whether t contains no variables. O(1) on shared terms.
func (t *Term) IsGround() bool { return t.ground }

// Weight returns t's cached weight (spec §4.2). O(1) on shared terms.
func (t *Term) Weight() uint32 { return t.weight }

// Arena allocates and hash-conses terms and literals for one Signature.
// Ground and non-ground structurally-equal terms both share identity: the
// intern key includes variable identifiers, so alpha-distinct terms are
// distinct entries but syntactically identical terms (including identical
// variable numbering) collapse to one node.
type Arena struct {
	sig   *Signature
	vars  map[int]*Term
	terms map[termKey]*Term
	lits  map[literalKey]*Literal
}

type termKey struct {
	functor FunctionID
	argsKey string // stable key built from argument identities
}

// NewArena returns an arena bound to sig. Signature.NewSignature already
// creates one; this is exported for tests that want an arena without a
// full Signature wrapper.
func NewArena(sig *Signature) *Arena {
	return &Arena{
		sig:   sig,
		vars:  make(map[int]*Term),
		terms: make(map[termKey]*Term),
		lits:  make(map[literalKey]*Literal),
	}
}

// Signature returns the Signature this arena interns terms against.
func (a *Arena) Signature() *Signature { return a.sig }

// Var returns the (cached) term for variable id.
func (a *Arena) Var(id int) *Term {
	if t, ok := a.vars[id]; ok {
		return t
	}
	t := &Term{isVar: true, varID: id, weight: DefaultVariableWeight, ground: false}
	a.vars[id] = t
	return t
}

// InternTerm returns the canonical term for functor applied to args. Two
// calls with equal (functor, args) return the same pointer (spec §8
// property 1, generalized from function symbols to terms as a whole).
func (a *Arena) InternTerm(functor FunctionID, args []*Term) *Term {
	key := termKey{functor: functor, argsKey: argsIdentityKey(args)}
	if t, ok := a.terms[key]; ok {
		return t
	}
	ground := true
	weight := a.symbolWeight(functor)
	for _, arg := range args {
		if !arg.ground {
			ground = false
		}
		weight += arg.weight
	}
	t := &Term{
		functor: functor,
		args:    append([]*Term(nil), args...),
		weight:  weight,
		ground:  ground,
	}
	a.terms[key] = t
	a.sig.Function(functor).touch()
	return t
}

// symbolWeight is the per-occurrence weight of a function symbol. All
// symbols default to weight 1 unless configured otherwise via
// Signature.SetFunctionWeight before any term using them is interned.
func (a *Arena) symbolWeight(f FunctionID) uint32 {
	w := a.sig.Function(f).weight
	if w == 0 {
		return 1
	}
	return w
}

func argsIdentityKey(args []*Term) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%p|", a)
	}
	return b.String()
}

// Vars returns the free variables of t together with their multiplicity in
// t, in first-occurrence order. This is the "lazy iterator" of spec §4.2
// materialized as a slice; callers needing true laziness for very large
// terms can walk Subterms themselves.
func (t *Term) Vars() []VarOcc {
	mult := make(map[int]int)
	var order []int
	var walk func(*Term)
	walk = func(x *Term) {
		if x.isVar {
			if _, seen := mult[x.varID]; !seen {
				order = append(order, x.varID)
			}
			mult[x.varID]++
			return
		}
		for _, arg := range x.args {
			walk(arg)
		}
	}
	walk(t)
	out := make([]VarOcc, len(order))
	for i, v := range order {
		out[i] = VarOcc{Var: v, Count: mult[v]}
	}
	return out
}

// VarOcc pairs a variable id with its multiplicity in a term or literal.
type VarOcc struct {
	Var   int
	Count int
}

// SubtermVisitor is called for every non-variable subterm of a term during
// Subterms, depth-first. Returning true ("skip") causes the traversal to
// not descend into that subterm's arguments (spec §4.2's "skip subtree"
// operation for early pruning once an occurrence is found).
type SubtermVisitor func(t *Term, path []int) (skip bool)

// Subterms performs a depth-first traversal of t's non-variable subterms,
// including t itself if t is non-variable.
func (t *Term) Subterms(visit SubtermVisitor) {
	var walk func(*Term, []int)
	walk = func(x *Term, path []int) {
		if x.isVar {
			return
		}
		if visit(x, path) {
			return
		}
		for i, arg := range x.args {
			walk(arg, append(path, i))
		}
	}
	walk(t, nil)
}

// Replace builds a new term with every occurrence of s replaced by sPrime.
// Comparison is by pointer identity (hash-consing guarantees this is
// equivalent to structural equality for shared terms).
func (a *Arena) Replace(t, s, sPrime *Term) *Term {
	if t == s {
		return sPrime
	}
	if t.isVar {
		return t
	}
	changed := false
	newArgs := make([]*Term, len(t.args))
	for i, arg := range t.args {
		r := a.Replace(arg, s, sPrime)
		newArgs[i] = r
		if r != arg {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return a.InternTerm(t.functor, newArgs)
}

// String renders t using the arena's signature for symbol names. It is
// meant for debug logging, not for round-tripping.
func (a *Arena) String(t *Term) string {
	var b strings.Builder
	a.writeTerm(&b, t)
	return b.String()
}

func (a *Arena) writeTerm(b *strings.Builder, t *Term) {
	if t.isVar {
		fmt.Fprintf(b, "X%d", t.varID)
		return
	}
	sym := a.sig.Function(t.functor)
	b.WriteString(sym.Name)
	if len(t.args) > 0 {
		b.WriteByte('(')
		for i, arg := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.writeTerm(b, arg)
		}
		b.WriteByte(')')
	}
}
