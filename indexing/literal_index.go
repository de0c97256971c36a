package indexing

import (
	"github.com/petrellabs/saturate/kernel"
)

// header identifies one bucket of the literal index forest (spec §4.5: "a
// forest keyed at the root by the header"). Every literal keys on
// (predicate, polarity); equality literals are additionally flagged isEq,
// and both argument orders of a commutative double-query search the same
// bucket.
type header struct {
	pred     kernel.PredicateID
	positive bool
	isEq     bool
}

func headerOf(l *kernel.Literal) header {
	if l.IsEquality() {
		return header{pred: kernel.PredEquality, positive: l.Positive(), isEq: true}
	}
	return header{pred: l.Predicate(), positive: l.Positive()}
}

// LiteralIndex indexes whole literals for unit-clause-style retrieval (e.g.
// finding resolution partners for a selected literal): a forest of Trees
// keyed by header, grounded on
// original_source/Indexing/LiteralSubstitutionTree.cpp.
type LiteralIndex struct {
	arena  *kernel.Arena
	forest map[header]*Tree
	inBank kernel.Bank // bank indexed entries are stored under
}

// NewLiteralIndex returns an empty index whose stored literals are
// interpreted in inBank (conventionally kernel.BankResult or
// kernel.BankNormalized for long-lived Active clause indices).
func NewLiteralIndex(arena *kernel.Arena, inBank kernel.Bank) *LiteralIndex {
	return &LiteralIndex{arena: arena, forest: make(map[header]*Tree), inBank: inBank}
}

func (idx *LiteralIndex) treeFor(h header) *Tree {
	t, ok := idx.forest[h]
	if !ok {
		t = NewTree()
		idx.forest[h] = t
	}
	return t
}

// Insert adds every literal of clause to the index.
func (idx *LiteralIndex) Insert(clause *kernel.Clause) {
	for _, l := range clause.Literals() {
		idx.treeFor(headerOf(l)).Insert(l.Args(), LeafData{Clause: clause, Literal: l})
	}
}

// Remove deletes every literal of clause from the index.
func (idx *LiteralIndex) Remove(clause *kernel.Clause) {
	for _, l := range clause.Literals() {
		idx.treeFor(headerOf(l)).Remove(l.Args(), LeafData{Clause: clause, Literal: l})
	}
}

// queryHeaderFor is the complementary header a resolution-style query
// should retrieve against: same predicate, opposite polarity (spec §4.6's
// resolution inference looks for the complement of its selected literal).
func queryHeaderFor(l *kernel.Literal) header {
	h := headerOf(l)
	h.positive = !h.positive
	return h
}

// Query retrieves literals compatible with mode against the complement of
// l's polarity (the resolution retrieval shape).
// Equality literals are queried with both argument orders concatenated,
// since "a = b" unifies with an indexed "x = y" under either pairing (spec
// §4.5's commutative retrieval).
func (idx *LiteralIndex) Query(queryBank kernel.Bank, l *kernel.Literal, mode RetrievalMode) []Result {
	h := queryHeaderFor(l)
	t, ok := idx.forest[h]
	if !ok {
		return nil
	}
	results := t.Retrieve(idx.arena, l.Args(), queryBank, idx.inBank, mode)
	if l.IsEquality() && len(l.Args()) == 2 {
		swapped := []*kernel.Term{l.Args()[1], l.Args()[0]}
		results = append(results, t.Retrieve(idx.arena, swapped, queryBank, idx.inBank, mode)...)
	}
	return results
}

// QuerySamePolarity retrieves against l's own header rather than its
// complement, used by the subsumption and subsumption-resolution checks.
func (idx *LiteralIndex) QuerySamePolarity(queryBank kernel.Bank, l *kernel.Literal, mode RetrievalMode) []Result {
	h := headerOf(l)
	t, ok := idx.forest[h]
	if !ok {
		return nil
	}
	results := t.Retrieve(idx.arena, l.Args(), queryBank, idx.inBank, mode)
	if l.IsEquality() && len(l.Args()) == 2 {
		swapped := []*kernel.Term{l.Args()[1], l.Args()[0]}
		results = append(results, t.Retrieve(idx.arena, swapped, queryBank, idx.inBank, mode)...)
	}
	return results
}
