// Package kernel implements the term, literal, clause, substitution and
// ordering layer of the saturation core: a typed signature over function and
// predicate symbols, hash-consed terms and literals, clauses with the
// metadata the saturation loop needs, a backtrackable substitution, and the
// Knuth-Bendix simplification ordering used to restrict inferences.
//
// Every operation that may intern a symbol, term, or literal takes a
// *Signature by pointer; there is no implicit global signature, so
// independent tests can run with independent contexts.
package kernel

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SortID identifies a sort (type). Built-in sorts are reserved at the low
// end of the range; user-defined sorts (including array and algebraic data
// types) are allocated above them.
type SortID uint32

// Built-in sorts, per spec §3.
const (
	SortBoolean SortID = iota
	SortInteger
	SortRational
	SortReal
	SortDefault // uninterpreted, the default sort for user symbols
	firstUserSort
)

// Kind distinguishes function symbols from predicate symbols.
type Kind uint8

const (
	KindFunction Kind = iota
	KindPredicate
)

// SymbolFlags records the boolean properties a symbol may carry.
type SymbolFlags struct {
	Interpreted           bool
	EqualityProxy         bool
	TermAlgebraConstructor bool
	Introduced            bool
	InGoal                bool
	InUnit                bool
}

// FunctionID identifies an interned function symbol.
type FunctionID uint32

// PredicateID identifies an interned predicate symbol. PredEquality is
// reserved: it is the polymorphic equality predicate, handled specially by
// argument-sort tagging rather than by a fixed arity/signature.
type PredicateID uint32

// PredEquality is the distinguished, polymorphic equality predicate.
const PredEquality PredicateID = 0

// Symbol is one signature entry.
type Symbol struct {
	Name      string
	Kind      Kind
	Arity     int
	ArgSorts  []SortID
	RetSort   SortID // meaningful only for Kind == KindFunction
	Flags     SymbolFlags
	usageCount uint64
	weight    uint32 // per-occurrence KBO weight; 0 means "use default" (1)
}

// UsageCount returns the number of times this symbol has been used to build
// a term or literal since interning. It is monotonic for the life of the
// Signature.
func (s *Symbol) UsageCount() uint64 { return s.usageCount }

func (s *Symbol) touch() { s.usageCount++ }

type funcKey struct {
	name  string
	arity int
}

// Signature interns function and predicate symbols and allocates sort ids.
// It is the "prover context" threaded through every kernel/indexing/
// saturation/inferences operation (spec §9 design note on global mutable
// state): nothing in this module keeps an implicit global signature.
//
// Signature is not safe for concurrent mutation; the saturation core is
// single-threaded by design (spec §5), so no locking is done on the hot
// path. A single coarse mutex protects only the fresh-name generator, which
// may be called from outside the hot loop (e.g. by a CLI building the
// initial problem concurrently with option parsing).
type Signature struct {
	functions   []Symbol
	predicates  []Symbol
	funcByKey   map[funcKey]FunctionID
	predByKey   map[funcKey]PredicateID
	sortNames   []string

	freshMu sync.Mutex
	nextVar int

	arena *Arena
}

// NewSignature returns an empty signature with the built-in sorts and the
// polymorphic equality predicate already registered.
func NewSignature() *Signature {
	sig := &Signature{
		funcByKey:  make(map[funcKey]FunctionID),
		predByKey:  make(map[funcKey]PredicateID),
		sortNames:  []string{"$bool", "$int", "$rat", "$real", "$default"},
		predicates: []Symbol{{Name: "=", Kind: KindPredicate, Arity: 2}},
	}
	sig.arena = NewArena(sig)
	return sig
}

// Arena returns the term/literal arena bound to this signature.
func (sig *Signature) Arena() *Arena { return sig.arena }

// DeclareSort allocates a new user-defined sort and returns its id.
func (sig *Signature) DeclareSort(name string) SortID {
	id := SortID(len(sig.sortNames))
	sig.sortNames = append(sig.sortNames, name)
	return id
}

// SortName returns the declared name of a sort, or "" if unknown.
func (sig *Signature) SortName(s SortID) string {
	if int(s) >= len(sig.sortNames) {
		return ""
	}
	return sig.sortNames[s]
}

// InternFunction interns a function symbol by (name, arity), idempotently:
// two calls with the same key return the same FunctionID. argSorts must have
// length == arity.
func (sig *Signature) InternFunction(name string, argSorts []SortID, retSort SortID) FunctionID {
	key := funcKey{name, len(argSorts)}
	if id, ok := sig.funcByKey[key]; ok {
		return id
	}
	id := FunctionID(len(sig.functions))
	sorts := append([]SortID(nil), argSorts...)
	sig.functions = append(sig.functions, Symbol{
		Name:     name,
		Kind:     KindFunction,
		Arity:    len(argSorts),
		ArgSorts: sorts,
		RetSort:  retSort,
	})
	sig.funcByKey[key] = id
	return id
}

// InternPredicate interns a predicate symbol by (name, arity), idempotently.
func (sig *Signature) InternPredicate(name string, argSorts []SortID) PredicateID {
	key := funcKey{name, len(argSorts)}
	if id, ok := sig.predByKey[key]; ok {
		return id
	}
	id := PredicateID(len(sig.predicates))
	sorts := append([]SortID(nil), argSorts...)
	sig.predicates = append(sig.predicates, Symbol{
		Name:     name,
		Kind:     KindPredicate,
		Arity:    len(argSorts),
		ArgSorts: sorts,
	})
	sig.predByKey[key] = id
	return id
}

// SetFunctionWeight configures the KBO symbol weight for a function symbol.
// It must be called before any term using that symbol is interned, since
// term weight is cached at intern time (spec §4.2).
func (sig *Signature) SetFunctionWeight(id FunctionID, w uint32) {
	sig.functions[id].weight = w
}

// Function returns the symbol record for a FunctionID.
func (sig *Signature) Function(id FunctionID) *Symbol { return &sig.functions[id] }

// Predicate returns the symbol record for a PredicateID.
func (sig *Signature) Predicate(id PredicateID) *Symbol { return &sig.predicates[id] }

// FreshFunction reserves a new function symbol whose name is guaranteed
// unique within this signature, built from the requested prefix. This backs
// Skolemization and other symbol-introducing transformations performed by
// the (external) preprocessor, and is also used internally when inference
// rules need to name an auxiliary symbol.
func (sig *Signature) FreshFunction(prefix string, argSorts []SortID, retSort SortID) FunctionID {
	sig.freshMu.Lock()
	name := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
	sig.freshMu.Unlock()
	id := sig.InternFunction(name, argSorts, retSort)
	sig.functions[id].Flags.Introduced = true
	return id
}

// FreshPredicate reserves a new predicate symbol with a guaranteed-unique
// name built from the requested prefix.
func (sig *Signature) FreshPredicate(prefix string, argSorts []SortID) PredicateID {
	sig.freshMu.Lock()
	name := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
	sig.freshMu.Unlock()
	id := sig.InternPredicate(name, argSorts)
	sig.predicates[id].Flags.Introduced = true
	return id
}

// FreshVarID allocates a variable identifier guaranteed not to collide with
// any identifier previously issued by this call on this signature. Inference
// rules use it to renumber two premises' variables into one shared space
// before combining their literals into a result clause, since raw variable
// IDs are only disambiguated by substitution bank while they still belong
// to separate premises.
func (sig *Signature) FreshVarID() int {
	sig.freshMu.Lock()
	defer sig.freshMu.Unlock()
	id := sig.nextVar
	sig.nextVar++
	return id
}
