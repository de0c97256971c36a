package indexing

import (
	"github.com/petrellabs/saturate/kernel"
)

// TermIndex indexes individual subterms (rather than whole literals) keyed
// by sort, for use by superposition/demodulation rules that rewrite at an
// arbitrary subterm position (spec §4.5 "optional term" leaf data; grounded
// on original_source/Indexing/TermIndexingStructure.hpp's role as the
// rewriting and subsumption-resolution term index).
type TermIndex struct {
	arena  *kernel.Arena
	forest map[kernel.SortID]*Tree
	inBank kernel.Bank
}

// NewTermIndex returns an empty term index over arena, whose stored terms
// are interpreted in inBank.
func NewTermIndex(arena *kernel.Arena, inBank kernel.Bank) *TermIndex {
	return &TermIndex{arena: arena, forest: make(map[kernel.SortID]*Tree), inBank: inBank}
}

func (idx *TermIndex) treeFor(sort kernel.SortID) *Tree {
	t, ok := idx.forest[sort]
	if !ok {
		t = NewTree()
		idx.forest[sort] = t
	}
	return t
}

// sortOfFunction reports the return sort of a non-variable term, the sort
// that determines which forest bucket it belongs in; variables are indexed
// under kernel.SortDefault since their precise sort is carried by the
// literal they occur in, not by the term itself.
func sortOfFunction(sig *kernel.Signature, t *kernel.Term) kernel.SortID {
	if t.IsVar() {
		return kernel.SortDefault
	}
	return sig.Function(t.Functor()).RetSort
}

// InsertSubterms indexes every non-variable subterm of every literal of
// clause, along with the owning literal, so a rewrite rule can look up
// candidate equations by any rewritable position (not just literal top
// level). The literal itself is also indexed at the top-level positions of
// its arguments (the typical entry points for superposition into/from an
// equality literal).
func (idx *TermIndex) InsertSubterms(clause *kernel.Clause) {
	sig := idx.arena.Signature()
	for _, l := range clause.Literals() {
		for _, arg := range l.Args() {
			arg.Subterms(func(sub *kernel.Term, path []int) bool {
				sort := sortOfFunction(sig, sub)
				idx.treeFor(sort).Insert([]*kernel.Term{sub}, LeafData{Clause: clause, Literal: l, Term: sub})
				return false
			})
		}
	}
}

// RemoveSubterms undoes InsertSubterms for clause.
func (idx *TermIndex) RemoveSubterms(clause *kernel.Clause) {
	sig := idx.arena.Signature()
	for _, l := range clause.Literals() {
		for _, arg := range l.Args() {
			arg.Subterms(func(sub *kernel.Term, path []int) bool {
				sort := sortOfFunction(sig, sub)
				idx.treeFor(sort).Remove([]*kernel.Term{sub}, LeafData{Clause: clause, Literal: l, Term: sub})
				return false
			})
		}
	}
}

// Query retrieves indexed subterms of term's sort compatible with mode.
func (idx *TermIndex) Query(queryBank kernel.Bank, sig *kernel.Signature, term *kernel.Term, mode RetrievalMode) []Result {
	sort := sortOfFunction(sig, term)
	t, ok := idx.forest[sort]
	if !ok {
		return nil
	}
	return t.Retrieve(idx.arena, []*kernel.Term{term}, queryBank, idx.inBank, mode)
}
