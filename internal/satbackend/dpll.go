// Package satbackend provides ground-propositional SAT solving for Global
// Subsumption (spec §4.8): an incremental Backend interface plus two
// implementations, a self-contained DPLL solver and an adapter over a real
// incremental SAT library.
package satbackend

import (
	"container/heap"
	"sort"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

// Backend is the incremental ground-SAT contract GlobalSubsumption queries:
// assert permanent clauses, then repeatedly test satisfiability under a
// varying assumption set without losing the asserted clauses between calls.
type Backend interface {
	AddClause(lits []int)
	Solve(assumptions []int) bool
}

// DPLL is a Backend backed by a from-scratch Davis-Putnam-Logemann-Loveland
// solver with watched literals and unit propagation, in the style of
// "Chaff: Engineering an Efficient SAT Solver". Grounded on the teacher's
// own saturday.go, adapted from a one-shot Solve(problem) entry point into
// an incremental accumulate-then-query Backend: each Solve call re-runs the
// full DPLL search over the accumulated clauses plus that call's
// assumptions (each assumption is a temporary unit clause). This trades
// solver-state reuse for simplicity — correct, but it repeats work a true
// incremental solver (clause learning across calls, assumption levels)
// would avoid; DESIGN.md records this as an accepted simplification, with
// GiniBackend as the path to genuine incrementality.
type DPLL struct {
	clauses [][]int
	log     *logrus.Entry
}

// NewDPLL returns an empty DPLL backend. log may be nil.
func NewDPLL(log *logrus.Entry) *DPLL {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DPLL{log: log}
}

// AddClause asserts lits as a permanent clause of the accumulated theory.
func (d *DPLL) AddClause(lits []int) {
	d.clauses = append(d.clauses, append([]int(nil), lits...))
}

// Solve reports whether the accumulated clauses remain satisfiable with
// every literal of assumptions additionally forced true.
func (d *DPLL) Solve(assumptions []int) bool {
	problem := make([][]int, 0, len(d.clauses)+len(assumptions))
	problem = append(problem, d.clauses...)
	for _, lit := range assumptions {
		problem = append(problem, []int{lit})
	}
	if len(problem) == 0 {
		return true
	}
	_, sat := solveDPLL(problem, d.log)
	return sat
}

type dpllSolver struct {
	sourceVars []sourceVar
	simpleSat  assnVal
	simplified [][]int

	origVars []int

	assignments []assnVal
	watches     [][]int

	unassigned litHeap

	decisions    []decision
	implications []literal
	propIndex    int

	clauses []dpllClause

	log             *logrus.Entry
	numDecisions    int64
	numImplications int64
}

type sourceVar struct {
	v    int
	assn assnVal
	i    int
}

type dpllClause struct {
	lits []literal
}

type litHeap struct {
	watches [][]int
	lits    []litHeapItem
	m       map[literal]int
}

type litHeapItem struct {
	lit literal
	i   int
}

func (h *litHeap) Len() int { return len(h.lits) }

func (h *litHeap) Less(i, j int) bool {
	lit0, lit1 := h.lits[i].lit, h.lits[j].lit
	return len(h.watches[lit0]) > len(h.watches[lit1])
}

func (h *litHeap) Swap(i, j int) {
	e0, e1 := h.lits[i], h.lits[j]
	e0.i = j
	e1.i = i
	h.lits[i] = e1
	h.lits[j] = e0
	h.m[e0.lit] = j
	h.m[e1.lit] = i
}

func (h *litHeap) Push(x interface{}) {
	elt := x.(litHeapItem)
	h.m[elt.lit] = len(h.lits)
	elt.i = len(h.lits)
	h.lits = append(h.lits, elt)
}

func (h *litHeap) Pop() interface{} {
	elt := h.lits[len(h.lits)-1]
	h.lits = h.lits[:len(h.lits)-1]
	elt.i = -1
	delete(h.m, elt.lit)
	return elt
}

func newDPLLSolver(problem [][]int, log *logrus.Entry) *dpllSolver {
	sv := simplifyDPLL(problem)
	sv.log = log
	if sv.simpleSat != unassigned {
		return sv
	}
	vars := make(map[int]int)
	for _, cls := range sv.simplified {
		for _, v := range cls {
			v = absInt(v)
			if _, ok := vars[v]; !ok {
				sv.origVars = append(sv.origVars, v)
				vars[v] = 0
			}
		}
	}
	sort.Ints(sv.origVars)
	for i, v := range sv.origVars {
		vars[v] = i
	}
	for i, v := range sv.sourceVars {
		if v.assn == unassigned {
			sv.sourceVars[i].i = vars[v.v]
		}
	}
	sv.watches = make([][]int, len(sv.origVars)*2)
	sv.assignments = make([]assnVal, len(sv.origVars))
	sv.clauses = make([]dpllClause, len(sv.simplified))
	for i, cls := range sv.simplified {
		for j, v := range cls {
			neg := false
			if v < 0 {
				neg = true
				v = -v
			}
			lit := literal(vars[v]) << 1
			if neg {
				lit ^= 1
			}
			sv.clauses[i].lits = append(sv.clauses[i].lits, lit)
			if j < 2 {
				sv.watches[lit] = append(sv.watches[lit], i)
			}
		}
	}
	sv.unassigned.watches = sv.watches
	sv.unassigned.m = make(map[literal]int)
	for lit, watches := range sv.watches {
		if len(watches) > 0 {
			sv.pushUnassigned(literal(lit))
		}
	}
	return sv
}

// simplifyDPLL runs unit propagation and trivial-clause elimination on
// problem to a fixpoint before any search begins.
func simplifyDPLL(problem [][]int) *dpllSolver {
	var sv dpllSolver
	vars := make(map[int]assnVal)
	sv.simplified = make([][]int, len(problem))
	for i, cls := range problem {
		seen := make(map[int]struct{})
		var clause1 []int
		for _, v := range cls {
			if v == 0 {
				panic("satbackend: zero literal in clause")
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			clause1 = append(clause1, v)
			vars[absInt(v)] = unassigned
		}
		sv.simplified[i] = clause1
	}
	changed := true
	for changed {
		if len(sv.simplified) == 0 {
			sv.simpleSat = assnTrue
			for v, assn := range vars {
				if assn == unassigned {
					vars[v] = assnTrue
				}
			}
			break
		}
		changed = false
		var i int
	clauseLoop:
		for _, cls := range sv.simplified {
			if len(cls) == 0 {
				sv.simpleSat = assnFalse
				return &sv
			}
			if len(cls) == 1 {
				v := cls[0]
				assn := assnTrue
				if v < 0 {
					assn = assnFalse
					v = -v
				}
				if vars[v] != unassigned && vars[v] != assn {
					sv.simpleSat = assnFalse
					return &sv
				}
				vars[v] = assn
				changed = true
				continue clauseLoop
			}
			var j int
			for _, v := range cls {
				assn := vars[absInt(v)]
				if assn == unassigned {
					cls[j] = v
					j++
					continue
				}
				changed = true
				if (assn == assnTrue) == (v > 0) {
					continue clauseLoop
				}
			}
			sv.simplified[i] = cls[:j]
			i++
		}
		sv.simplified = sv.simplified[:i]
	}
	sv.sourceVars = make([]sourceVar, 0, len(vars))
	for v, assn := range vars {
		sv.sourceVars = append(sv.sourceVars, sourceVar{v: v, assn: assn})
	}
	sort.Slice(sv.sourceVars, func(i, j int) bool {
		return sv.sourceVars[i].v < sv.sourceVars[j].v
	})
	return &sv
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// solveDPLL determines whether problem (a CNF formula, negative ints
// negated vars) is satisfiable.
func solveDPLL(problem [][]int, log *logrus.Entry) (assignment []int, sat bool) {
	sv := newDPLLSolver(problem, log)
	ok := sv.solve()
	if !ok {
		return nil, false
	}
	soln := make([]int, len(sv.sourceVars))
	for i, v := range sv.sourceVars {
		assn := v.assn
		if assn == unassigned {
			assn = sv.assignments[v.i] & 3
		}
		switch assn {
		case assnFalse:
			soln[i] = -v.v
		case assnTrue:
			soln[i] = v.v
		default:
			panic("satbackend: incomplete solution")
		}
	}
	return soln, true
}

type literal uint32

func (l literal) assn() assnVal { return assnVal(l&1) + 1 }

type assnVal uint8

const (
	unassigned assnVal = 0
	assnTrue   assnVal = 1
	assnFalse  assnVal = 2
	// The second values are used only in sv.assignments to indicate that an
	// assignment is being tried for a second time.
	assnTrueSecond  assnVal = 5
	assnFalseSecond assnVal = 6
)

func (a assnVal) inv() assnVal { return a ^ 3 }

type decision struct {
	implicationIdx int
	lit            literal
}

func (sv *dpllSolver) solve() bool {
	switch sv.simpleSat {
	case assnTrue:
		return true
	case assnFalse:
		return false
	}

	for {
		lit, ok := sv.popUnassigned()
		if !ok {
			return true
		}
		sv.deleteUnassigned(lit ^ 1)
		v := lit >> 1
		sv.assignments[v] = lit.assn()
		sv.numDecisions++
		sv.decisions = append(sv.decisions, decision{
			implicationIdx: len(sv.implications),
			lit:            lit,
		})
		sv.propIndex = len(sv.implications)
		sv.implications = append(sv.implications, lit)

		for !sv.bcp() {
			if !sv.resolveConflict() {
				return false
			}
		}
	}
}

// bcp performs boolean constraint propagation to a fixpoint, reporting
// false on conflict.
func (sv *dpllSolver) bcp() bool {
	for {
		imps := sv.implications[sv.propIndex:]
		if len(imps) == 0 {
			return true
		}
		sv.propIndex = len(sv.implications)
		for _, impliedLit := range imps {
			neg := impliedLit ^ 1
			watches := sv.watches[neg]
		watchesLoop:
			for i := 0; i < len(watches); {
				clauseIdx := watches[i]
				cls := sv.clauses[clauseIdx]
				if cls.lits[0] == neg {
					cls.lits[0], cls.lits[1] = cls.lits[1], cls.lits[0]
				} else if cls.lits[1] != neg {
					panic("satbackend: bad watch state")
				}
				lit0 := cls.lits[0]
				if sv.assignments[lit0>>1]&3 == lit0.assn() {
					i++
					continue
				}
				for j := 2; j < len(cls.lits); j++ {
					lit := cls.lits[j]
					assn := sv.assignments[lit>>1] & 3
					if assn == lit.assn().inv() {
						continue
					}
					sv.watches[lit] = append(sv.watches[lit], clauseIdx)
					if assn == unassigned {
						sv.updateUnassigned(lit)
					}
					watches[i], watches[len(watches)-1] = watches[len(watches)-1], watches[i]
					watches = watches[:len(watches)-1]
					sv.watches[neg] = watches
					cls.lits[1], cls.lits[j] = cls.lits[j], cls.lits[1]
					continue watchesLoop
				}
				i++
				otherWatch := cls.lits[0]
				v := int(otherWatch >> 1)
				if sv.assignments[v] != unassigned {
					if sv.log != nil && sv.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
						sv.log.WithField("clause", clauseIdx).Trace(pretty.Sprint(sv.assignments))
					}
					return false
				}
				sv.assignments[v] = otherWatch.assn()
				sv.deleteUnassigned(otherWatch)
				sv.numImplications++
				sv.implications = append(sv.implications, otherWatch)
			}
		}
	}
}

// resolveConflict backtracks to the most recent decision not yet tried both
// ways and flips it, reporting false when the search space is exhausted.
func (sv *dpllSolver) resolveConflict() bool {
	di := -1
	var d decision
	for i := len(sv.decisions) - 1; i >= 0; i-- {
		d = sv.decisions[i]
		if sv.assignments[d.lit>>1]&4 == 0 {
			di = i
			break
		}
	}
	if di == -1 {
		return false
	}
	for i := len(sv.implications) - 1; i > d.implicationIdx; i-- {
		lit := sv.implications[i]
		sv.pushUnassigned(lit)
		sv.assignments[lit>>1] = unassigned
	}
	sv.implications = sv.implications[:d.implicationIdx+1]
	sv.implications[len(sv.implications)-1] ^= 1
	sv.decisions = sv.decisions[:di+1]
	sv.decisions[di].lit ^= 1
	sv.assignments[d.lit>>1] ^= 5
	sv.propIndex = d.implicationIdx
	return true
}

func (sv *dpllSolver) pushUnassigned(lit literal) {
	if _, ok := sv.unassigned.m[lit]; ok {
		panic("satbackend: push of literal already in the unassigned queue")
	}
	heap.Push(&sv.unassigned, litHeapItem{lit: lit})
}

func (sv *dpllSolver) popUnassigned() (literal, bool) {
	if len(sv.unassigned.lits) == 0 {
		return 0, false
	}
	e := heap.Pop(&sv.unassigned).(litHeapItem)
	return e.lit, true
}

func (sv *dpllSolver) deleteUnassigned(lit literal) {
	i, ok := sv.unassigned.m[lit]
	if !ok {
		panic("satbackend: delete of nonexistent unassigned var")
	}
	heap.Remove(&sv.unassigned, i)
}

func (sv *dpllSolver) updateUnassigned(lit literal) {
	if i, ok := sv.unassigned.m[lit]; ok {
		heap.Fix(&sv.unassigned, i)
	} else {
		heap.Push(&sv.unassigned, litHeapItem{lit: lit})
	}
}
