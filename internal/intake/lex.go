// Package intake reads the minimal line-oriented clausal input format
// SPEC_FULL.md §5 defines: one clause per line, '|'-separated literals,
// axiom/conjecture/negated_conjecture input types, lowercase
// constants/functors and uppercase variables. Grounded in shape on the
// teacher's dimacs.go: a bufio.Scanner line loop feeding a small per-line
// parser, errors wrapped with the offending line number via
// github.com/pkg/errors, but the grammar itself is this format's own
// rather than DIMACS's.
package intake

import (
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokPipe
	tokTilde
	tokEq
	tokNeq
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits one input line into tokens. Identifiers are any run of
// letters, digits, or underscores; everything else is single-character
// punctuation except '!=' which lexes as one token.
type lexer struct {
	src []rune
	pos int
}

func newLexer(line string) *lexer {
	return &lexer{src: []rune(line)}
}

func (lx *lexer) peekRune() (rune, bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.pos], true
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (lx *lexer) skipSpace() {
	for {
		r, ok := lx.peekRune()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		lx.pos++
	}
}

// next returns the next token, or a tokEOF at end of input.
func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	r, ok := lx.peekRune()
	if !ok {
		return token{kind: tokEOF}, nil
	}
	switch r {
	case '(':
		lx.pos++
		return token{kind: tokLParen}, nil
	case ')':
		lx.pos++
		return token{kind: tokRParen}, nil
	case ',':
		lx.pos++
		return token{kind: tokComma}, nil
	case '|':
		lx.pos++
		return token{kind: tokPipe}, nil
	case '~':
		lx.pos++
		return token{kind: tokTilde}, nil
	case '=':
		lx.pos++
		return token{kind: tokEq}, nil
	case '!':
		lx.pos++
		if r2, ok := lx.peekRune(); ok && r2 == '=' {
			lx.pos++
			return token{kind: tokNeq}, nil
		}
		return token{}, errors.Errorf("unexpected '!' (want '!=') at offset %d", lx.pos-1)
	default:
		if !isIdentRune(r) {
			return token{}, errors.Errorf("unexpected character %q at offset %d", r, lx.pos)
		}
		start := lx.pos
		for {
			r, ok := lx.peekRune()
			if !ok || !isIdentRune(r) {
				break
			}
			lx.pos++
		}
		return token{kind: tokIdent, text: string(lx.src[start:lx.pos])}, nil
	}
}

func isVarName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper([]rune(name)[0])
}
