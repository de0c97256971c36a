package kernel

// Ordinal is the result of comparing two terms or literals under a
// simplification ordering.
type Ordinal int8

const (
	OrdLess Ordinal = iota - 2
	OrdIncomparable
	OrdEqual
	OrdGreater
)

func (o Ordinal) String() string {
	switch o {
	case OrdLess:
		return "LESS"
	case OrdEqual:
		return "EQUAL"
	case OrdGreater:
		return "GREATER"
	default:
		return "INCOMPARABLE"
	}
}

// reverse flips LESS/GREATER, leaving EQUAL/INCOMPARABLE unchanged.
func (o Ordinal) reverse() Ordinal {
	switch o {
	case OrdLess:
		return OrdGreater
	case OrdGreater:
		return OrdLess
	default:
		return o
	}
}

// Precedence is a total strict order on function symbols, and separately on
// predicate symbols (spec §4.4).
type Precedence struct {
	funcRank map[FunctionID]int
	predRank map[PredicateID]int
}

// NewPrecedence builds a precedence from explicit orderings; symbols not
// listed are ranked below all listed symbols, ordered by their FunctionID/
// PredicateID as a stable tiebreak so the ordering remains total.
func NewPrecedence(funcOrder []FunctionID, predOrder []PredicateID) *Precedence {
	p := &Precedence{funcRank: make(map[FunctionID]int), predRank: make(map[PredicateID]int)}
	for i, f := range funcOrder {
		p.funcRank[f] = i + 1
	}
	for i, pr := range predOrder {
		p.predRank[pr] = i + 1
	}
	return p
}

func (p *Precedence) compareFunc(a, b FunctionID) Ordinal {
	if a == b {
		return OrdEqual
	}
	ra, oka := p.funcRank[a]
	rb, okb := p.funcRank[b]
	switch {
	case oka && okb:
		return cmpInt(ra, rb)
	case oka:
		return OrdGreater
	case okb:
		return OrdLess
	default:
		return cmpInt(int(a), int(b))
	}
}

func (p *Precedence) comparePred(a, b PredicateID) Ordinal {
	if a == b {
		return OrdEqual
	}
	ra, oka := p.predRank[a]
	rb, okb := p.predRank[b]
	switch {
	case oka && okb:
		return cmpInt(ra, rb)
	case oka:
		return OrdGreater
	case okb:
		return OrdLess
	default:
		return cmpInt(int(a), int(b))
	}
}

func cmpInt(a, b int) Ordinal {
	switch {
	case a < b:
		return OrdLess
	case a > b:
		return OrdGreater
	default:
		return OrdEqual
	}
}

// KBO is a Knuth-Bendix simplification ordering parameterized by a symbol
// weight function (via the Signature, spec §4.4), a uniform variable
// weight, a function precedence, and a predicate precedence with levels.
// Equality is the lowest predicate level.
type KBO struct {
	sig            *Signature
	prec           *Precedence
	variableWeight uint32
	predLevel      map[PredicateID]int
	reverseLiteral bool
}

// KBOOption configures a KBO at construction time.
type KBOOption func(*KBO)

// WithVariableWeight overrides the default uniform variable weight (1).
func WithVariableWeight(w uint32) KBOOption {
	return func(k *KBO) { k.variableWeight = w }
}

// WithPredicateLevels assigns explicit levels to predicates; unlisted
// predicates other than equality get level 0 below any listed predicate's
// positive level, matching "equality the lowest level" from spec §4.4 by
// giving equality a level below every other predicate's default.
func WithPredicateLevels(levels map[PredicateID]int) KBOOption {
	return func(k *KBO) {
		for p, l := range levels {
			k.predLevel[p] = l
		}
	}
}

// WithReverseLiteralComparison flips polarity handling in literal
// comparison so negative literals become larger (spec §4.4).
func WithReverseLiteralComparison(reverse bool) KBOOption {
	return func(k *KBO) { k.reverseLiteral = reverse }
}

// NewKBO builds a KBO ordering over sig using prec for both function and
// predicate precedence comparisons.
func NewKBO(sig *Signature, prec *Precedence, opts ...KBOOption) *KBO {
	k := &KBO{
		sig:            sig,
		prec:           prec,
		variableWeight: 1,
		predLevel:      make(map[PredicateID]int),
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

// symbolWeight returns the KBO-configured weight of a function symbol,
// independent of the term-cache's DefaultVariableWeight assumption.
func (k *KBO) symbolWeight(f FunctionID) int64 {
	w := k.sig.Function(f).weight
	if w == 0 {
		return 1
	}
	return int64(w)
}

// kboState accumulates the simultaneous traversal described in spec §4.4: a
// running weight difference and per-variable signed multiplicity. The
// lexicographic tiebreak is computed separately, on demand, once weight and
// variable-balance checks fail to resolve the comparison (see tentative).
type kboState struct {
	weightDiff int64
	varBalance map[int]int // positive var: appears more on left (s); negative: more on right (t)
}

func newKBOState() *kboState {
	return &kboState{varBalance: make(map[int]int)}
}

func (st *kboState) addVar(v int, coef int) {
	st.varBalance[v] += coef
}

// Compare implements the full decision table of spec §4.4 for two terms.
func (k *KBO) Compare(s, t *Term) Ordinal {
	if s == t {
		return OrdEqual
	}
	st := newKBOState()
	k.traverse(s, 1, st)
	k.traverse(t, -1, st)
	return k.decide(st, s, t)
}

// traverse walks tl accumulating weight (scaled by coef, +1 for the left
// term / -1 for the right) and variable multiplicities. It does not by
// itself compute the lexicographic component for equal-functor recursion;
// that is done in decide via a second, functor-driven pass once we know
// weight/variable checks don't already resolve the comparison. This split
// mirrors original_source/Kernel/KBO.cpp's State::traverse plus its
// decision function.
func (k *KBO) traverse(tl *Term, coef int, st *kboState) {
	if tl.isVar {
		st.addVar(tl.varID, coef)
		st.weightDiff += int64(coef) * int64(k.variableWeight)
		return
	}
	st.weightDiff += int64(coef) * k.symbolWeight(tl.functor)
	for _, arg := range tl.args {
		k.traverse(arg, coef, st)
	}
}

// decide applies the KBO decision table (spec §4.4, step order taken from
// original_source/Kernel/KBO.cpp): variable-balance veto first, then
// weight, then precedence on top functor, then a lexicographic recursion.
func (k *KBO) decide(st *kboState, s, t *Term) Ordinal {
	hasPos, hasNeg := false, false
	for _, c := range st.varBalance {
		if c > 0 {
			hasPos = true
		}
		if c < 0 {
			hasNeg = true
		}
	}
	// Tentative result before applying the variable-balance veto.
	tentative := k.tentative(st, s, t)

	if hasNeg && (tentative == OrdGreater || tentative == OrdEqual) {
		return OrdIncomparable
	}
	if hasPos && (tentative == OrdLess || tentative == OrdEqual) {
		return OrdIncomparable
	}
	return tentative
}

func (k *KBO) tentative(st *kboState, s, t *Term) Ordinal {
	if st.weightDiff != 0 {
		if st.weightDiff > 0 {
			return OrdGreater
		}
		return OrdLess
	}
	if s.isVar || t.isVar {
		// Equal weight, at least one side a variable: only equal if the
		// other side is exactly that variable (handled by s==t above), or
		// one is a proper subterm of the other under a purely variable
		// comparison, which is impossible with zero weight difference
		// unless they are literally the same variable. Otherwise
		// incomparable.
		return OrdIncomparable
	}
	if s.functor != t.functor {
		return k.prec.compareFunc(s.functor, t.functor)
	}
	return k.lexCompare(s.args, t.args)
}

// lexCompare compares argument lists of two terms with equal top functor,
// left to right, recursing with Compare on the first differing pair.
func (k *KBO) lexCompare(sArgs, tArgs []*Term) Ordinal {
	for i := range sArgs {
		if sArgs[i] == tArgs[i] {
			continue
		}
		sub := k.Compare(sArgs[i], tArgs[i])
		if sub != OrdEqual {
			return sub
		}
	}
	return OrdEqual
}

// CompareLiterals compares two literals: first by predicate level (equality
// lowest), then by predicate precedence, then argument-wise (spec §4.4).
func (k *KBO) CompareLiterals(a, b *Literal) Ordinal {
	la, lb := k.literalLevel(a), k.literalLevel(b)
	if la != lb {
		return cmpInt(la, lb)
	}
	if a.pred != b.pred {
		res := k.prec.comparePred(a.pred, b.pred)
		return k.applyReverse(a, b, res)
	}
	res := k.compareArgsMultiset(a.args, b.args)
	return k.applyReverse(a, b, res)
}

func (k *KBO) literalLevel(l *Literal) int {
	if l.pred == PredEquality {
		return -1 // equality is the lowest level
	}
	return k.predLevel[l.pred]
}

// applyReverse implements the reverse-literal-comparison switch (spec
// §4.4): when enabled, a negative literal is treated as larger than an
// otherwise-equal-or-comparable positive one.
func (k *KBO) applyReverse(a, b *Literal, res Ordinal) Ordinal {
	if !k.reverseLiteral || res != OrdEqual {
		return res
	}
	if a.positive == b.positive {
		return res
	}
	if a.positive {
		return OrdLess
	}
	return OrdGreater
}

// compareArgsMultiset compares argument lists of same-predicate literals.
// Two-argument lists (equality and any other binary predicate) are compared
// position by position first; only when that is incomparable is a's pair
// compared again with its arguments swapped, and that result is returned.
// Other arities compare lexicographically.
func (k *KBO) compareArgsMultiset(a, b []*Term) Ordinal {
	if len(a) == 2 && len(b) == 2 {
		direct := k.pairCompare(a, b)
		if direct != OrdIncomparable {
			return direct
		}
		swapped := k.pairCompare([]*Term{a[1], a[0]}, b)
		return swapped
	}
	return k.lexCompare(a, b)
}

func (k *KBO) pairCompare(a, b []*Term) Ordinal {
	first := k.Compare(a[0], b[0])
	if first != OrdEqual {
		return first
	}
	return k.Compare(a[1], b[1])
}

// Orient reports, for equality literals, whether this ordering orients l's
// arguments (oriented) and, if so, whether the first is the greater (gt).
// An orientable result is cached lazily on the literal (spec §4.4's
// "dedicated cached orientation bits set lazily on first comparison"); an
// unorientable one is recomputed on each call.
func (k *KBO) Orient(l *Literal) (oriented bool, gt bool) {
	if !l.IsEquality() {
		return false, false
	}
	if l.orientedOnce {
		return true, l.oriented
	}
	res := k.Compare(l.args[0], l.args[1])
	if res != OrdGreater && res != OrdLess {
		return false, false
	}
	l.orientedOnce = true
	l.oriented = res == OrdGreater
	return true, l.oriented
}
