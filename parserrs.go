package intcalc

import (
	"strconv"
	"strings"
)

// LexError indicates a character that does not begin any token. It implements
// InputError.
type LexError struct {
	// Offset is the byte offset of the character.
	Offset int
	// Char is the unrecognized character.
	Char rune
}

func (err *LexError) Error() string {
	return errpos(err.Offset, "unrecognized symbol "+strconv.QuoteRune(err.Char))
}

func (err *LexError) Pos() int {
	return err.Offset
}

// TokenError is an error indicating a token that cannot continue any grammar
// rule at its position. It implements InputError.
type TokenError struct {
	// Token is the text of the offending token.
	Token string
	// Span is the location of the token.
	Span Span
	// Expected lists the kinds of tokens which would have been accepted.
	Expected []string
}

func (err *TokenError) Error() string {
	return errpos(err.Span.Start, "unrecognized token "+strconv.Quote(err.Token)+expecting(err.Expected))
}

func (err *TokenError) Pos() int {
	return err.Span.Start
}

// EOFError is an error indicating that the input ended in the middle of an
// expression. It implements InputError.
type EOFError struct {
	// Offset is the length of the input.
	Offset int
	// Expected lists the kinds of tokens which would have been accepted.
	Expected []string
}

func (err *EOFError) Error() string {
	return errpos(err.Offset, "unexpected end of input"+expecting(err.Expected))
}

func (err *EOFError) Pos() int {
	return err.Offset
}

// LiteralError is an error indicating an integer literal too large for a
// 128-bit signed integer. It implements InputError.
type LiteralError struct {
	// Text is the literal as written.
	Text string
	// Span is the location of the literal.
	Span Span
}

func (err *LiteralError) Error() string {
	return errpos(err.Span.Start, "integer literal "+err.Text+" out of range")
}

func (err *LiteralError) Pos() int {
	return err.Span.Start
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

func expecting(kinds []string) string {
	if len(kinds) == 0 {
		return ""
	}
	q := make([]string, len(kinds))
	for i, k := range kinds {
		q[i] = strconv.Quote(k)
	}
	return "; expected one of " + strings.Join(q, ", ")
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset in the input at which the error occurred.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*EOFError)(nil)
	_ InputError = (*LiteralError)(nil)
)

// kindnames converts token kinds to their display names.
func kindnames(kinds ...tokenKind) []string {
	r := make([]string, len(kinds))
	for i, k := range kinds {
		r[i] = k.String()
	}
	return r
}

// unexpected returns the error for tok appearing where only the given kinds
// would be accepted.
func unexpected(tok lexToken, expected []tokenKind) error {
	if tok.kind == tokenEOF {
		return &EOFError{Offset: tok.span.Start, Expected: kindnames(expected...)}
	}
	return &TokenError{Token: tok.text, Span: tok.span, Expected: kindnames(expected...)}
}
