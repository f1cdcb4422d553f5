package intcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

type lexToken struct {
	text string
	kind tokenKind
	span Span
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + t.span.String()
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a run of decimal digits.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenPi is the PI keyword.
	tokenPi

	tokenAdd
	tokenSub
	tokenMul
	tokenDiv
	tokenPow
	tokenAssign

	tokenOpen
	tokenClose
	// tokenOpenSquare and tokenCloseSquare are lexed but not accepted by the
	// grammar.
	tokenOpenSquare
	tokenCloseSquare
	// tokenSemi separates statements.
	tokenSemi
)

var tokenNames = [...]string{
	tokenNone:        "none",
	tokenEOF:         "end of input",
	tokenNum:         "number",
	tokenIdent:       "identifier",
	tokenPi:          "PI",
	tokenAdd:         "+",
	tokenSub:         "-",
	tokenMul:         "*",
	tokenDiv:         "/",
	tokenPow:         "**",
	tokenAssign:      "=",
	tokenOpen:        "(",
	tokenClose:       ")",
	tokenOpenSquare:  "[",
	tokenCloseSquare: "]",
	tokenSemi:        ";",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Keyword is the reserved identifier that names the integer constant π.
const Keyword = "PI"

// single maps the runes which always form a token by themselves. * is handled
// separately because ** is a single token.
var single = map[rune]tokenKind{
	'+': tokenAdd,
	'-': tokenSub,
	'/': tokenDiv,
	'=': tokenAssign,
	'(': tokenOpen,
	')': tokenClose,
	'[': tokenOpenSquare,
	']': tokenCloseSquare,
	';': tokenSemi,
}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// off is the byte offset of the next rune to be read.
	off int
	// last is the size of the last rune read, for unreading.
	last int
	p    lexToken
	eof  bool
	// err is the first error the lexer encountered. Once set, every call to
	// next returns it.
	err error
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("intcalc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("intcalc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's offset.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	l.off += sz
	l.last = sz
	return r, err
}

// unreadRune unreads the last rune read from the src. Panics if unreading
// returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.off -= l.last
	l.last = 0
}

// next scans the next token from the input. The first time the input is
// exhausted, the result is an EOF token with a nil error. Subsequent times, the
// result is an empty token with io.EOF. After a lexical error, next returns
// that error forever.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.err != nil {
		return lexToken{}, l.err
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		start := l.off
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return lexToken{kind: tokenEOF, span: Span{start, start}}, nil
			}
			l.err = err
			return lexToken{}, err
		}
		tok := lexToken{span: Span{start, l.off}}
		switch {
		case r == ' ', r == '\t', r == '\n', r == '\r':
			continue
		case isDigit(r):
			l.unreadRune()
			if err := l.scan(isDigit); err != nil {
				return lexToken{}, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			tok.span.End = l.off
			return tok, nil
		case isLetter(r):
			l.unreadRune()
			if err := l.scan(isIdentRune); err != nil {
				return lexToken{}, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			if tok.text == Keyword {
				tok.kind = tokenPi
			}
			tok.span.End = l.off
			return tok, nil
		case r == '*':
			tok.text, tok.kind = "*", tokenMul
			r, err := l.readRune()
			switch {
			case err == nil && r == '*':
				tok.text, tok.kind = "**", tokenPow
				tok.span.End = l.off
			case err == nil:
				l.unreadRune()
			case !errors.Is(err, io.EOF):
				l.err = err
				return lexToken{}, err
			}
			return tok, nil
		default:
			if k, ok := single[r]; ok {
				tok.text = string(r)
				tok.kind = k
				return tok, nil
			}
			l.err = &LexError{Offset: start, Char: r}
			return lexToken{}, l.err
		}
	}
}

// scan writes runes to the lexer's buffer while they satisfy ok.
func (l *lexer) scan(ok func(rune) bool) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides the token kind before
				// calling scan, so we have scanned at least one rune.
				return nil
			}
			l.err = err
			return err
		}
		if !ok(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdentRune(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}

// IsIdent returns whether s is a valid variable name: an ASCII letter
// followed by letters, digits, and underscores, other than the keyword PI.
func IsIdent(s string) bool {
	if s == "" || s == Keyword {
		return false
	}
	for i, r := range s {
		if i == 0 && !isLetter(r) || !isIdentRune(r) {
			return false
		}
	}
	return true
}
