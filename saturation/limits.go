package saturation

import (
	"math"

	"github.com/petrellabs/saturate/kernel"
)

// noLimit marks a dimension of Limits as unbounded (spec §4.9/§7: "treat as
// effectively infinite").
const noLimit = math.MaxUint32

// Limits are the dynamic age/weight bounds passes_retention enforces (spec
// §4.9). Both dimensions saturate at noLimit rather than overflow.
type Limits struct {
	AgeLimit    uint32
	WeightLimit uint32
}

// Unbounded returns Limits that retain every clause, the loop's starting
// point before LRS has observed enough of the search to tighten anything.
func Unbounded() Limits {
	return Limits{AgeLimit: noLimit, WeightLimit: noLimit}
}

// PassesRetention reports whether c should be kept under l (spec §4.7's
// passes_retention): a clause within the age limit is retained regardless
// of weight ("age ≤ ageLimit ... may still be retained"); otherwise it must
// be within the weight limit.
func (l Limits) PassesRetention(c *kernel.Clause) bool {
	if c.Age() <= l.AgeLimit {
		return true
	}
	return c.EffectiveWeight() <= l.WeightLimit
}

// Tightened reports whether next is strictly tighter than l in either
// dimension — the trigger condition for a bulk discard pass (spec §4.9).
func (l Limits) Tightened(next Limits) bool {
	return next.AgeLimit < l.AgeLimit || next.WeightLimit < l.WeightLimit
}

// LRS (limited resource strategy) derives tightened Limits from the current
// best-known bound on what a refutation could still cost, and applies the
// resulting bulk discard to Active and Passive when limits actually
// tighten (spec §4.9: "tightening of limits triggers a bulk discard pass
// over Active and Passive").
type LRS struct {
	enabled bool
	current Limits
	bus     *EventBus
}

// NewLRS returns an LRS controller. When enabled is false, Update is a
// no-op and Current always reports Unbounded() — LRS is an optional
// strategy, not a mandatory part of the loop (spec §4.9 describes it as a
// dynamic tightening a run may or may not employ).
func NewLRS(enabled bool, bus *EventBus) *LRS {
	l := &LRS{enabled: enabled, bus: bus, current: Unbounded()}
	return l
}

// Current returns the limits in effect right now.
func (r *LRS) Current() Limits {
	if !r.enabled {
		return Unbounded()
	}
	return r.current
}

// Update records next as the controller's limits (when enabled) and, if
// next is tighter than the previous limits, discards now-excluded clauses
// from active and passive, firing 'removed' for each (via their own
// container methods, which publish through bus). It reports the clauses
// discarded; a widening records next and discards nothing.
func (r *LRS) Update(next Limits, active *Active, passive *Passive) []*kernel.Clause {
	if !r.enabled || !r.current.Tightened(next) {
		if r.enabled {
			r.current = next
		}
		return nil
	}
	r.current = next
	keep := func(c *kernel.Clause) bool { return r.current.PassesRetention(c) }

	discarded := passive.DiscardOverLimit(keep)

	for _, c := range active.All() {
		if !keep(c) {
			active.Remove(c)
			discarded = append(discarded, c)
		}
	}
	return discarded
}

// WeightBoundFromRefutation derives a candidate tightened weight limit from
// the weight of a just-found empty-clause-adjacent derivation: no clause
// heavier than the cheapest known route to refutation can still contribute
// (a standard LRS heuristic; spec §4.9 leaves the exact schedule
// unspecified, so this is an Open Question decision — see DESIGN.md).
func WeightBoundFromRefutation(cheapestKnown uint32) Limits {
	return Limits{AgeLimit: noLimit, WeightLimit: cheapestKnown}
}
