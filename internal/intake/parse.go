package intake

import (
	"bufio"
	"io"
	"strings"

	"github.com/petrellabs/saturate/kernel"
	"github.com/pkg/errors"
)

// Parser turns lines of the clausal intake format into kernel.Clause values
// against a shared Signature/Arena, so that symbols with the same name
// across separate calls to ParseClauses intern to the same FunctionID or
// PredicateID.
type Parser struct {
	sig   *kernel.Signature
	arena *kernel.Arena
}

// NewParser returns a Parser interning symbols into sig.
func NewParser(sig *kernel.Signature) *Parser {
	return &Parser{sig: sig, arena: sig.Arena()}
}

// ParseClauses reads every non-blank, non-comment line of r as one clause.
// A ';'-prefixed line is a comment (SPEC_FULL.md §5).
func (p *Parser) ParseClauses(r io.Reader) ([]*kernel.Clause, error) {
	var out []*kernel.Clause
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		c, err := p.parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "intake: line %d", lineNo)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lineParser holds the per-line lexer state and the variable scope local to
// the clause being parsed (spec §5: variable names are scoped to one line).
type lineParser struct {
	p    *Parser
	lx   *lexer
	tok  token
	vars map[string]*kernel.Term
}

func (p *Parser) parseLine(line string) (*kernel.Clause, error) {
	lp := &lineParser{p: p, lx: newLexer(line), vars: make(map[string]*kernel.Term)}
	if err := lp.advance(); err != nil {
		return nil, err
	}
	inputType, err := lp.parseInputType()
	if err != nil {
		return nil, err
	}
	var lits []*kernel.Literal
	for {
		l, err := lp.parseLiteral()
		if err != nil {
			return nil, err
		}
		lits = append(lits, l)
		if lp.tok.kind != tokPipe {
			break
		}
		if err := lp.advance(); err != nil {
			return nil, err
		}
	}
	if lp.tok.kind != tokEOF {
		return nil, errors.Errorf("intake: unexpected trailing token after clause")
	}
	return kernel.NewClause(lits, inputType, nil), nil
}

func (lp *lineParser) advance() error {
	t, err := lp.lx.next()
	if err != nil {
		return err
	}
	lp.tok = t
	return nil
}

func (lp *lineParser) parseInputType() (kernel.InputType, error) {
	if lp.tok.kind != tokIdent {
		return 0, errors.New("intake: expected input type at start of line")
	}
	var it kernel.InputType
	switch lp.tok.text {
	case "axiom":
		it = kernel.InputAxiom
	case "conjecture":
		it = kernel.InputConjecture
	case "negated_conjecture":
		it = kernel.InputNegatedConjecture
	default:
		return 0, errors.Errorf("intake: unknown input type %q", lp.tok.text)
	}
	return it, lp.advance()
}

// parseLiteral parses one '|'-delimited literal: '~' Atom, Term '=' Term,
// Term '!=' Term, or a bare Atom.
func (lp *lineParser) parseLiteral() (*kernel.Literal, error) {
	if lp.tok.kind == tokTilde {
		if err := lp.advance(); err != nil {
			return nil, err
		}
		return lp.parseAtom(false)
	}

	name, args, err := lp.parseNameAndArgs()
	if err != nil {
		return nil, err
	}
	switch lp.tok.kind {
	case tokEq, tokNeq:
		positive := lp.tok.kind == tokEq
		lhs := lp.termFromParsed(name, args)
		if err := lp.advance(); err != nil {
			return nil, err
		}
		rhs, err := lp.parseTerm()
		if err != nil {
			return nil, err
		}
		return lp.p.arena.InternLiteral(kernel.PredEquality, positive, kernel.SortDefault, []*kernel.Term{lhs, rhs}), nil
	default:
		return lp.predicateLiteral(true, name, args)
	}
}

// parseAtom parses a predicate atom (after a leading '~' was already
// consumed) and builds the literal with the given polarity. Equality is
// never negated via '~' in this grammar; '!=' is its own token for that.
func (lp *lineParser) parseAtom(positive bool) (*kernel.Literal, error) {
	name, args, err := lp.parseNameAndArgs()
	if err != nil {
		return nil, err
	}
	return lp.predicateLiteral(positive, name, args)
}

func (lp *lineParser) predicateLiteral(positive bool, name string, args []*kernel.Term) (*kernel.Literal, error) {
	if isVarName(name) {
		return nil, errors.Errorf("intake: %q cannot be used as a predicate name (starts uppercase)", name)
	}
	argSorts := make([]kernel.SortID, len(args))
	for i := range argSorts {
		argSorts[i] = kernel.SortDefault
	}
	pred := lp.p.sig.InternPredicate(name, argSorts)
	return lp.p.arena.InternLiteral(pred, positive, kernel.SortDefault, args), nil
}

// parseNameAndArgs consumes NAME or NAME '(' Term (',' Term)* ')' and
// returns the bare name plus its argument list (nil for a bare identifier).
// The caller decides whether the result denotes a term or a predicate atom.
func (lp *lineParser) parseNameAndArgs() (string, []*kernel.Term, error) {
	if lp.tok.kind != tokIdent {
		return "", nil, errors.New("intake: expected identifier")
	}
	name := lp.tok.text
	if err := lp.advance(); err != nil {
		return "", nil, err
	}
	if lp.tok.kind != tokLParen {
		return name, nil, nil
	}
	if err := lp.advance(); err != nil {
		return "", nil, err
	}
	var args []*kernel.Term
	for {
		t, err := lp.parseTerm()
		if err != nil {
			return "", nil, err
		}
		args = append(args, t)
		if lp.tok.kind == tokComma {
			if err := lp.advance(); err != nil {
				return "", nil, err
			}
			continue
		}
		break
	}
	if lp.tok.kind != tokRParen {
		return "", nil, errors.New("intake: expected ')'")
	}
	if err := lp.advance(); err != nil {
		return "", nil, err
	}
	return name, args, nil
}

// parseTerm parses one term: a variable, a 0-arity constant, or a functor
// application.
func (lp *lineParser) parseTerm() (*kernel.Term, error) {
	name, args, err := lp.parseNameAndArgs()
	if err != nil {
		return nil, err
	}
	return lp.termFromParsed(name, args), nil
}

// termFromParsed builds the *kernel.Term for a name/args pair already
// consumed by parseNameAndArgs, resolving variable identity within the
// current clause's scope.
func (lp *lineParser) termFromParsed(name string, args []*kernel.Term) *kernel.Term {
	if args == nil && isVarName(name) {
		if v, ok := lp.vars[name]; ok {
			return v
		}
		v := lp.p.arena.Var(lp.p.sig.FreshVarID())
		lp.vars[name] = v
		return v
	}
	argSorts := make([]kernel.SortID, len(args))
	for i := range argSorts {
		argSorts[i] = kernel.SortDefault
	}
	fn := lp.p.sig.InternFunction(name, argSorts, kernel.SortDefault)
	return lp.p.arena.InternTerm(fn, args)
}
