package kernel

// LiteralSelector chooses, for a given clause and ordering, how many
// leading literals (after any reordering it performs) form the selected
// prefix inference rules may fire on (spec §3's "selected" field,
// original_source/Kernel/MaximalLiteralSelector.cpp's separation of
// selection policy from the clause itself).
//
// Select must reorder c's literals in place (via setLiteralsPreservingMeta)
// if it wants a
// different prefix than the clause's current literal order, then call
// c.SetSelected with the resulting count.
type LiteralSelector interface {
	Select(c *Clause, ord *KBO)
}

// FirstLiteralSelector always selects exactly the first literal. It is the
// simplest possible policy, used by spec §8 scenario (e) to demonstrate
// that selection governs which inferences fire.
type FirstLiteralSelector struct{}

func (FirstLiteralSelector) Select(c *Clause, ord *KBO) {
	if c.Len() == 0 {
		return
	}
	c.SetSelected(1)
}

// MaximalLiteralSelector selects every literal that is maximal in the
// clause under the ordering (ties broken by keeping all maximal literals,
// which is required for completeness: an inference must be able to fire on
// some maximal literal no matter which one the ordering favors when several
// are incomparable at the top).
type MaximalLiteralSelector struct{}

func (MaximalLiteralSelector) Select(c *Clause, ord *KBO) {
	lits := c.Literals()
	if len(lits) == 0 {
		return
	}
	maximal := make([]bool, len(lits))
	for i := range lits {
		maximal[i] = true
	}
	for i := range lits {
		for j := range lits {
			if i == j {
				continue
			}
			switch ord.CompareLiterals(lits[i], lits[j]) {
			case OrdLess:
				maximal[i] = false
			}
		}
	}
	// Reorder so the maximal literals form a leading prefix.
	reordered := make([]*Literal, 0, len(lits))
	for i, l := range lits {
		if maximal[i] {
			reordered = append(reordered, l)
		}
	}
	count := len(reordered)
	for i, l := range lits {
		if !maximal[i] {
			reordered = append(reordered, l)
		}
	}
	c.setLiteralsPreservingMeta(reordered)
	c.SetSelected(count)
}
