package saturation

import (
	"container/heap"

	"github.com/petrellabs/saturate/kernel"
)

// Unprocessed is the append-only deque newly generated and newly input
// clauses enter (spec §4.6). It has no ordering policy of its own: clauses
// leave in FIFO order to keep forward-simplification's cost predictable.
type Unprocessed struct {
	items []*kernel.Clause
	bus   *EventBus
}

// NewUnprocessed returns an empty Unprocessed container publishing to bus.
func NewUnprocessed(bus *EventBus) *Unprocessed {
	return &Unprocessed{bus: bus}
}

// Push appends c and fires 'added'.
func (u *Unprocessed) Push(c *kernel.Clause) {
	c.SetStore(kernel.StoreUnprocessed)
	c.Retain()
	u.items = append(u.items, c)
	u.bus.Publish(EventAdded, c)
}

// Pop removes and returns the oldest clause, or nil if empty.
func (u *Unprocessed) Pop() *kernel.Clause {
	if len(u.items) == 0 {
		return nil
	}
	c := u.items[0]
	u.items = u.items[1:]
	c.Release()
	u.bus.Publish(EventRemoved, c)
	return c
}

// Empty reports whether the container holds no clauses.
func (u *Unprocessed) Empty() bool { return len(u.items) == 0 }

// Len reports the number of clauses currently queued.
func (u *Unprocessed) Len() int { return len(u.items) }

// ActivationPriority combines age and weight into the single scalar Passive
// uses to pick the next given clause (spec §4.6's "weighted combination of
// age and weight"). Lower is better (selected sooner).
type ActivationPriority struct {
	AgeWeight    uint32 // weight given to a clause's age term
	WeightWeight uint32 // weight given to a clause's literal-weight term
}

// DefaultActivationPriority favors smaller clauses somewhat more than
// younger ones, a common default balance for best-first given-clause
// selection (spec doesn't mandate a ratio; this is an Open Question
// decision, see DESIGN.md).
var DefaultActivationPriority = ActivationPriority{AgeWeight: 1, WeightWeight: 2}

func (p ActivationPriority) score(c *kernel.Clause) uint64 {
	return uint64(p.AgeWeight)*uint64(c.Age()) + uint64(p.WeightWeight)*uint64(c.EffectiveWeight())
}

// passiveHeap is the container/heap backing store for Passive, ordered by
// ActivationPriority ascending (smallest score pops first). Grounded on the
// teacher's own litHeap (a container/heap max-heap of unassigned variables
// ordered by watch-list size): same shape, different priority function.
type passiveHeap struct {
	items []*kernel.Clause
	prio  ActivationPriority
}

func (h *passiveHeap) Len() int { return len(h.items) }
func (h *passiveHeap) Less(i, j int) bool {
	return h.prio.score(h.items[i]) < h.prio.score(h.items[j])
}
func (h *passiveHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *passiveHeap) Push(x interface{}) {
	h.items = append(h.items, x.(*kernel.Clause))
}
func (h *passiveHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	c := old[n-1]
	h.items = old[:n-1]
	return c
}

// Passive holds clauses that survived forward simplification and are
// eligible for activation, ordered by ActivationPriority (spec §4.6).
type Passive struct {
	heap *passiveHeap
	bus  *EventBus
}

// NewPassive returns an empty Passive container using prio to rank clauses,
// publishing events to bus.
func NewPassive(prio ActivationPriority, bus *EventBus) *Passive {
	return &Passive{heap: &passiveHeap{prio: prio}, bus: bus}
}

// Add inserts c and fires 'added'.
func (p *Passive) Add(c *kernel.Clause) {
	c.SetStore(kernel.StorePassive)
	c.Retain()
	heap.Push(p.heap, c)
	p.bus.Publish(EventAdded, c)
}

// SelectNext pops the lowest-priority clause, transitions its store to
// Selected, and fires 'selected'. It returns nil if Passive is empty.
func (p *Passive) SelectNext() *kernel.Clause {
	if p.heap.Len() == 0 {
		return nil
	}
	c := heap.Pop(p.heap).(*kernel.Clause)
	c.Release()
	c.SetStore(kernel.StoreSelected)
	p.bus.Publish(EventSelected, c)
	return c
}

// Empty reports whether Passive holds no clauses.
func (p *Passive) Empty() bool { return p.heap.Len() == 0 }

// Len reports the number of clauses currently held.
func (p *Passive) Len() int { return p.heap.Len() }

// DiscardOverLimit removes every clause for which keep returns false,
// firing 'removed' for each (spec §4.9's LRS bulk-discard pass when limits
// tighten). It rebuilds the heap in place.
func (p *Passive) DiscardOverLimit(keep func(*kernel.Clause) bool) []*kernel.Clause {
	var discarded []*kernel.Clause
	kept := p.heap.items[:0]
	for _, c := range p.heap.items {
		if keep(c) {
			kept = append(kept, c)
			continue
		}
		c.Release()
		discarded = append(discarded, c)
	}
	p.heap.items = kept
	heap.Init(p.heap)
	for _, c := range discarded {
		c.SetStore(kernel.StoreNone)
		p.bus.Publish(EventRemoved, c)
	}
	return discarded
}

// All returns every clause currently in Passive, in no particular order.
func (p *Passive) All() []*kernel.Clause {
	return append([]*kernel.Clause(nil), p.heap.items...)
}

// Active holds clauses currently serving as result-side premises,
// simultaneously registered with indices via the 'added'/'removed' events
// (spec §4.6). Membership is tracked by clause ID for O(1) removal.
type Active struct {
	byID map[uint64]*kernel.Clause
	bus  *EventBus
}

// NewActive returns an empty Active container publishing to bus.
func NewActive(bus *EventBus) *Active {
	return &Active{byID: make(map[uint64]*kernel.Clause), bus: bus}
}

// Add registers c as active and fires 'added' (indices subscribe to this to
// insert c into their trees).
func (a *Active) Add(c *kernel.Clause) {
	c.SetStore(kernel.StoreActive)
	c.Retain()
	a.byID[c.ID()] = c
	a.bus.Publish(EventAdded, c)
}

// Remove deregisters c (used by backward simplification demoting an active
// clause) and fires 'removed'.
func (a *Active) Remove(c *kernel.Clause) {
	if _, ok := a.byID[c.ID()]; !ok {
		return
	}
	delete(a.byID, c.ID())
	c.Release()
	c.SetStore(kernel.StoreNone)
	a.bus.Publish(EventRemoved, c)
}

// All returns every active clause, in no particular order.
func (a *Active) All() []*kernel.Clause {
	out := make([]*kernel.Clause, 0, len(a.byID))
	for _, c := range a.byID {
		out = append(out, c)
	}
	return out
}

// Len reports the number of active clauses.
func (a *Active) Len() int { return len(a.byID) }

// Simplifying is the union-of-Active-and-Passive view some saturation
// variants (Otter-style) use as the source set for forward simplification,
// rather than Active alone (spec §4.6 parenthetical; grounded on
// original_source/Saturation/Otter.cpp treating Active+Passive uniformly
// for demodulation/subsumption lookups).
type Simplifying struct {
	active  *Active
	passive *Passive
}

// NewSimplifying returns a read-only view over active and passive.
func NewSimplifying(active *Active, passive *Passive) *Simplifying {
	return &Simplifying{active: active, passive: passive}
}

// All returns every clause in either Active or Passive.
func (s *Simplifying) All() []*kernel.Clause {
	out := s.active.All()
	out = append(out, s.passive.All()...)
	return out
}
