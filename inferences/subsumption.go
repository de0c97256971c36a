package inferences

import (
	"github.com/petrellabs/saturate/indexing"
	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
)

// matchLiteral one-way matches pattern (bankP) against term (bankT),
// trying both argument orientations when both are 2-argument equality
// literals (spec §4.2's unordered equality arguments).
func matchLiteral(s *kernel.RobSubstitution, pattern *kernel.Literal, bankP kernel.Bank, term *kernel.Literal, bankT kernel.Bank) bool {
	pArgs, tArgs := pattern.Args(), term.Args()
	if len(pArgs) != len(tArgs) {
		return false
	}
	mark := s.Mark()
	if matchArgs(s, pArgs, bankP, tArgs, bankT) {
		return true
	}
	s.Backtrack(mark)
	if pattern.IsEquality() && len(tArgs) == 2 {
		swapped := []*kernel.Term{tArgs[1], tArgs[0]}
		if matchArgs(s, pArgs, bankP, swapped, bankT) {
			return true
		}
		s.Backtrack(mark)
	}
	return false
}

func matchArgs(s *kernel.RobSubstitution, pArgs []*kernel.Term, bankP kernel.Bank, tArgs []*kernel.Term, bankT kernel.Bank) bool {
	for i := range pArgs {
		if !s.Match(pArgs[i], bankP, tArgs[i], bankT) {
			return false
		}
	}
	return true
}

// subsumes reports whether every literal of s matches, under one shared
// substitution, a distinct literal of c with the same polarity and
// predicate (spec §4.8's Forward Subsumption core: "a multi-literal match
// of S into C"). Grounded on
// original_source/Inferences/ForwardSubsumptionAndResolution.cpp's
// backtracking literal-assignment search.
func subsumes(arena *kernel.Arena, s, c *kernel.Clause) bool {
	used := make([]bool, c.Len())
	sub := kernel.NewRobSubstitution(arena)
	sLits, cLits := s.Literals(), c.Literals()
	var try func(i int) bool
	try = func(i int) bool {
		if i == len(sLits) {
			return true
		}
		sl := sLits[i]
		for j, cl := range cLits {
			if used[j] || sl.Positive() != cl.Positive() || sl.Predicate() != cl.Predicate() {
				continue
			}
			mark := sub.Mark()
			if matchLiteral(sub, sl, kernel.BankQuery, cl, kernel.BankResult) {
				used[j] = true
				if try(i + 1) {
					return true
				}
				used[j] = false
			}
			sub.Backtrack(mark)
		}
		return false
	}
	return try(0)
}

// ForwardSubsumption implements spec §4.8's Forward Subsumption: query the
// literal index for candidate subsumer clauses, then confirm each via
// subsumes. A confirmed subsumer discards the candidate outright.
type ForwardSubsumption struct {
	Ctx     *Context
	Literal *indexing.LiteralIndex // indexes Active clauses' literals, inBank = BankResult
}

// ForwardSimplify implements saturation.ForwardSimplifier.
func (fs *ForwardSubsumption) ForwardSimplify(c *kernel.Clause) (saturation.SimplifyOutcome, *kernel.Clause) {
	seen := make(map[*kernel.Clause]bool)
	for _, l := range c.Literals() {
		for _, res := range fs.Literal.QuerySamePolarity(kernel.BankQuery, l, indexing.ModeGeneralization) {
			s := res.Leaf.Clause
			if s == c || seen[s] {
				continue
			}
			seen[s] = true
			if subsumes(fs.Ctx.Arena, s, c) {
				return saturation.Discarded, nil
			}
		}
	}
	return saturation.Unchanged, c
}

// SubsumptionResolution implements spec §4.8's Subsumption Resolution: a
// generalization of subsumption where every literal of S but one matches
// distinct literals of C under one substitution, and that remaining
// literal's complement matches a literal of C — the simplified clause is C
// with that complementary literal removed. Grounded on the same
// ForwardSubsumptionAndResolution.cpp, its second ("SR") mode.
type SubsumptionResolution struct {
	Ctx     *Context
	Literal *indexing.LiteralIndex
}

// ForwardSimplify implements saturation.ForwardSimplifier.
func (sr *SubsumptionResolution) ForwardSimplify(c *kernel.Clause) (saturation.SimplifyOutcome, *kernel.Clause) {
	seen := make(map[*kernel.Clause]bool)
	for _, l := range c.Literals() {
		for _, res := range sr.Literal.QuerySamePolarity(kernel.BankQuery, l, indexing.ModeGeneralization) {
			s := res.Leaf.Clause
			if s == c || s.Len() < 2 || seen[s] {
				continue
			}
			seen[s] = true
			if dropIdx, ok := resolveAgainst(sr.Ctx.Arena, s, c); ok {
				reduced := kernel.NewClause(withoutIndex(c.Literals(), dropIdx), c.InputType(),
					&kernel.Inference{Rule: "subsumption_resolution", Premises: []*kernel.Clause{s, c}})
				reduced.SetAge(c.Age())
				return saturation.Simplified, reduced
			}
		}
	}
	return saturation.Unchanged, c
}

// resolveAgainst tries every literal of s as the designated "exception"
// (the one whose complement, not itself, must match a literal of c), with
// every other literal of s matching a distinct same-polarity literal of c.
// On success it reports the index within c of the literal matched by the
// exception's complement — the one Subsumption Resolution removes.
func resolveAgainst(arena *kernel.Arena, s, c *kernel.Clause) (int, bool) {
	sLits, cLits := s.Literals(), c.Literals()
	for exc := range sLits {
		used := make([]bool, len(cLits))
		sub := kernel.NewRobSubstitution(arena)
		exceptionTarget := -1
		var try func(i int) bool
		try = func(i int) bool {
			if i == len(sLits) {
				return true
			}
			if i == exc {
				for j, cl := range cLits {
					if used[j] {
						continue
					}
					if cl.Positive() == sLits[i].Positive() || cl.Predicate() != sLits[i].Predicate() {
						continue
					}
					mark := sub.Mark()
					if matchLiteral(sub, sLits[i], kernel.BankQuery, cl, kernel.BankResult) {
						used[j] = true
						exceptionTarget = j
						if try(i + 1) {
							return true
						}
						exceptionTarget = -1
						used[j] = false
					}
					sub.Backtrack(mark)
				}
				return false
			}
			sl := sLits[i]
			for j, cl := range cLits {
				if used[j] || sl.Positive() != cl.Positive() || sl.Predicate() != cl.Predicate() {
					continue
				}
				mark := sub.Mark()
				if matchLiteral(sub, sl, kernel.BankQuery, cl, kernel.BankResult) {
					used[j] = true
					if try(i + 1) {
						return true
					}
					used[j] = false
				}
				sub.Backtrack(mark)
			}
			return false
		}
		if try(0) {
			return exceptionTarget, true
		}
	}
	return 0, false
}
