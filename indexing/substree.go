// Package indexing implements term and literal indexing over the kernel
// package's hash-consed terms (spec §4.5), grounded on
// original_source/Indexing/SubstitutionTree.hpp's special-variable
// binding-stack design. Full substitution trees compress arbitrarily long
// shared subterm prefixes into a single edge; this rendition compresses one
// function symbol per edge (a special variable per argument position) and
// confirms candidates against the real terms with kernel.RobSubstitution at
// the leaf. See DESIGN.md for the tradeoff this simplification makes.
package indexing

import (
	"github.com/petrellabs/saturate/kernel"
)

// LeafData is the payload attached to a substitution tree leaf: the clause
// and literal it came from, plus (for term indices) the specific subterm.
type LeafData struct {
	Clause  *kernel.Clause
	Literal *kernel.Literal
	Term    *kernel.Term // nil when indexing whole literals rather than subterms
}

func (d LeafData) equal(o LeafData) bool {
	return d.Clause == o.Clause && d.Literal == o.Literal && d.Term == o.Term
}

// edgeKey labels an edge out of an internal node: either "this position is a
// variable" (matches any term) or "this position has top symbol functor".
type edgeKey struct {
	isVar   bool
	functor kernel.FunctionID
}

// node is either an internal branch point (children non-nil) or a leaf
// (leaves non-nil). A node is never both.
type node struct {
	children map[edgeKey]*node
	leaves   []LeafData
}

func newInternalNode() *node {
	return &node{children: make(map[edgeKey]*node)}
}

func (n *node) isLeaf() bool { return n.children == nil }

// bindingItem is one entry of the insertion/query binding stack: the
// special variable being resolved and the term bound to it (in some bank,
// tracked separately by the caller since insertion always uses the arena's
// canonical terms while queries carry a caller-supplied bank).
type bindingItem struct {
	term *kernel.Term
}

// Tree is a single substitution tree over fixed-arity tuples (the arguments
// of a literal or a lone term), used as one bucket of a Forest keyed by
// header. It is not safe for concurrent mutation and iteration (spec §4.5's
// "frozen iterator" discipline is the caller's responsibility: do not call
// Insert/Remove while a Retrieve result set is still being consumed).
type Tree struct {
	root *node
	size int
}

// NewTree returns an empty substitution tree.
func NewTree() *Tree {
	return &Tree{root: newInternalNode()}
}

// Size returns the number of leaf-data records currently stored.
func (t *Tree) Size() int { return t.size }

// Insert adds data at the path determined by args (spec §4.5 steps 1-4:
// canonical variable numbering is the caller's responsibility via the arena
// hash-consing terms it already normalized when the clause was built).
func (t *Tree) Insert(args []*kernel.Term, data LeafData) {
	queue := make([]bindingItem, len(args))
	for i, a := range args {
		queue[i] = bindingItem{term: a}
	}
	cur := t.root
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		key, expansion := splitTerm(item.term)
		child, ok := cur.children[key]
		if !ok {
			child = newInternalNode()
			cur.children[key] = child
		}
		queue = append(expansion, queue...)
		cur = child
	}
	// The node reached once the binding-stack queue is exhausted is this
	// insertion's leaf, whether it was freshly allocated (still carrying
	// an empty children map from newInternalNode) or already a leaf from
	// an earlier insertion along the same path.
	cur.children = nil
	cur.leaves = append(cur.leaves, data)
	t.size++
}

// splitTerm returns the edge key for term and, if term is a compound term,
// the binding-stack items for its arguments (to be processed next).
func splitTerm(term *kernel.Term) (edgeKey, []bindingItem) {
	if term.IsVar() {
		return edgeKey{isVar: true}, nil
	}
	args := term.Args()
	items := make([]bindingItem, len(args))
	for i, a := range args {
		items[i] = bindingItem{term: a}
	}
	return edgeKey{isVar: false, functor: term.Functor()}, items
}

// Remove deletes one occurrence of data at the path determined by args,
// pruning any internal node left with no children and no leaves (spec
// §4.5's "deletion reverses this; an empty subtree is pruned"). It reports
// whether an entry was found and removed.
func (t *Tree) Remove(args []*kernel.Term, data LeafData) bool {
	path := make([]*node, 0, 4)
	keys := make([]edgeKey, 0, 4)
	queue := make([]bindingItem, len(args))
	for i, a := range args {
		queue[i] = bindingItem{term: a}
	}
	cur := t.root
	path = append(path, cur)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		key, expansion := splitTerm(item.term)
		child, ok := cur.children[key]
		if !ok {
			return false
		}
		keys = append(keys, key)
		queue = append(expansion, queue...)
		cur = child
		path = append(path, cur)
	}
	idx := -1
	for i, l := range cur.leaves {
		if l.equal(data) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	cur.leaves = append(cur.leaves[:idx], cur.leaves[idx+1:]...)
	t.size--
	// Prune upward: drop any now-empty node from its parent.
	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if len(n.leaves) != 0 || (n.children != nil && len(n.children) != 0) {
			break
		}
		parent := path[i-1]
		delete(parent.children, keys[i-1])
	}
	return true
}

// RetrievalMode selects which of the four relations spec §4.5 requires
// governs whether a candidate at a leaf is confirmed.
type RetrievalMode int

const (
	// ModeUnify: bind variables on both sides.
	ModeUnify RetrievalMode = iota
	// ModeGeneralization: retrieve indexed entries that generalize the
	// query (query is an instance of the indexed pattern).
	ModeGeneralization
	// ModeInstance: retrieve indexed entries that are instances of the
	// query (the query generalizes the indexed entry).
	ModeInstance
	// ModeVariant: retrieve renaming-equivalent entries.
	ModeVariant
)

// Result pairs a confirmed leaf with the substitution that witnesses the
// match, so callers (inference rules) can apply it without re-deriving it.
type Result struct {
	Leaf  LeafData
	Subst *kernel.RobSubstitution
}

// Retrieve walks the tree collecting leaves compatible with mode, then
// confirms each candidate against the real terms with a fresh
// RobSubstitution (spec §4.5's four retrieval semantics; commutative
// literals are the caller's responsibility, see literal_index.go).
func (t *Tree) Retrieve(arena *kernel.Arena, args []*kernel.Term, queryBank kernel.Bank, indexBank kernel.Bank, mode RetrievalMode) []Result {
	var out []Result
	var candidates []*node
	collectCandidates(arena, t.root, args, mode, &candidates)
	for _, leafNode := range candidates {
		for _, ld := range leafNode.leaves {
			s := kernel.NewRobSubstitution(arena)
			if confirm(s, args, queryBank, ld, indexBank, mode) {
				out = append(out, Result{Leaf: ld, Subst: s})
			}
		}
	}
	return out
}

// collectCandidates descends the tree, at each internal node choosing which
// children are structurally admissible for mode given the corresponding
// query term, and appends every leaf node reached to out. This is a
// necessary-but-not-sufficient filter: confirm() does the real work.
func collectCandidates(arena *kernel.Arena, n *node, queryArgs []*kernel.Term, mode RetrievalMode, out *[]*node) {
	if n.isLeaf() {
		*out = append(*out, n)
		return
	}
	if len(queryArgs) == 0 {
		return
	}
	head := queryArgs[0]
	rest := queryArgs[1:]
	tryChild := func(key edgeKey, extra []*kernel.Term) {
		child, ok := n.children[key]
		if !ok {
			return
		}
		if extra == nil && !key.isVar {
			extra = wildcardArgs(arena, key.functor)
		}
		collectCandidates(arena, child, append(append([]*kernel.Term(nil), extra...), rest...), mode, out)
	}
	headIsVar := head.IsVar()
	switch mode {
	case ModeUnify:
		// A variable edge unifies with anything; a matching functor
		// edge unifies only if the query head isn't a variable, or
		// (if it is) every functor edge is still reachable since a
		// query variable unifies with any term. When the query head
		// is itself a variable, a descended functor child's own
		// argument positions are filled with wildcard placeholders
		// (tryChild does this automatically) since nothing about the
		// query constrains them structurally; confirm() performs the
		// real unification against the untouched index term.
		for key := range n.children {
			if key.isVar {
				tryChild(key, nil)
				continue
			}
			if headIsVar || head.Functor() == key.functor {
				extra := []*kernel.Term(nil)
				if !headIsVar {
					extra = head.Args()
				}
				tryChild(key, extra)
			}
		}
	case ModeGeneralization:
		// Indexed side is the pattern: an indexed variable edge
		// always matches (it can bind to anything); a functor edge
		// only matches an identical query functor.
		tryChild(edgeKey{isVar: true}, nil)
		if !headIsVar {
			tryChild(edgeKey{isVar: false, functor: head.Functor()}, head.Args())
		}
	case ModeInstance:
		// Query is the pattern: if the query position is a variable
		// it can match any indexed shape, so explore every child
		// (descending past a functor edge fills that indexed
		// subterm's own binding-stack items with wildcards, since
		// nothing in the query constrains them individually —
		// confirm() redoes the real argument-level match against the
		// untouched index term, so this coarse descent costs only
		// candidate-set precision, not correctness). A non-variable
		// query position only matches the identical indexed functor.
		if headIsVar {
			for key := range n.children {
				tryChild(key, nil)
			}
		} else {
			tryChild(edgeKey{isVar: false, functor: head.Functor()}, head.Args())
		}
	case ModeVariant:
		// Both sides must agree exactly on shape at every position.
		if headIsVar {
			tryChild(edgeKey{isVar: true}, nil)
		} else {
			tryChild(edgeKey{isVar: false, functor: head.Functor()}, head.Args())
		}
	}
}

// wildcardVarID is the variable identifier used for structural placeholder
// positions during candidate collection. It is never compared by identity
// and never reaches confirm(), which always re-reads the real query/index
// argument lists, so any fixed value works.
const wildcardVarID = -1 << 30

// wildcardArgs returns arity-many wildcard placeholder terms for functor,
// used to keep the binding-stack queue aligned when descending into a
// functor edge whose corresponding query position carries no structural
// information (it was a variable, or unify/instance exploration reached the
// edge without a concrete query subterm to decompose).
func wildcardArgs(arena *kernel.Arena, functor kernel.FunctionID) []*kernel.Term {
	arity := arena.Signature().Function(functor).Arity
	out := make([]*kernel.Term, arity)
	w := arena.Var(wildcardVarID)
	for i := range out {
		out[i] = w
	}
	return out
}

// confirm performs the authoritative check spec §4.5 assigns to each mode,
// against the real (non-decomposed) argument lists, discarding the
// structural-filter false positives collectCandidates may have admitted.
func confirm(s *kernel.RobSubstitution, queryArgs []*kernel.Term, queryBank kernel.Bank, ld LeafData, indexBank kernel.Bank, mode RetrievalMode) bool {
	var indexArgs []*kernel.Term
	if ld.Term != nil {
		indexArgs = []*kernel.Term{ld.Term}
	} else {
		indexArgs = ld.Literal.Args()
	}
	if len(indexArgs) != len(queryArgs) {
		return false
	}
	switch mode {
	case ModeUnify:
		for i := range queryArgs {
			if !s.Unify(queryArgs[i], queryBank, indexArgs[i], indexBank) {
				return false
			}
		}
		return true
	case ModeGeneralization:
		for i := range queryArgs {
			if !s.Match(indexArgs[i], indexBank, queryArgs[i], queryBank) {
				return false
			}
		}
		return true
	case ModeInstance:
		for i := range queryArgs {
			if !s.Match(queryArgs[i], queryBank, indexArgs[i], indexBank) {
				return false
			}
		}
		return true
	case ModeVariant:
		// A renaming equivalence holds iff each side matches the other
		// one-way: index generalizes query AND query generalizes index.
		// The index-to-query direction is checked first and undone, so s
		// never binds a variable of each side to the other (with a
		// repeated variable, Apply would follow that cycle without end);
		// s is left holding the query-to-index half of the renaming.
		mark := s.Mark()
		for i := range queryArgs {
			if !s.Match(indexArgs[i], indexBank, queryArgs[i], queryBank) {
				return false
			}
		}
		s.Backtrack(mark)
		for i := range queryArgs {
			if !s.Match(queryArgs[i], queryBank, indexArgs[i], indexBank) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
