package intcalc

import (
	"io"
	"math/big"
	"strings"
)

// Program = [ Stmt ] { ';' [ Stmt ] }
// Stmt = name '=' Expr | Expr
// Expr = Add | Sub | Mul | Div | Pow | Unary
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Unary '**' Expr
// Unary = '-' Unary | num | name | 'PI' | '(' Expr ')'

// parsectx holds data for parsing a single statement.
type parsectx struct {
	// names is the set of variable names that have been seen this statement.
	names map[string]bool
	// depth is the current nesting level of parentheses.
	depth int
}

// Parse parses every statement in src. Empty statements are dropped. If any
// error occurs, the result is nil and the error is the first one encountered.
func Parse(src io.RuneScanner) (*Program, error) {
	scan := lex(src)
	var prog Program
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenEOF:
			return &prog, nil
		case tokenSemi:
			continue
		}
		scan.push(tok)
		s, err := parsestmt(scan)
		if err != nil {
			return nil, err
		}
		prog.stmts = append(prog.stmts, s)
	}
}

// ParseString is a shortcut to parse a string.
func ParseString(src string) (*Program, error) {
	return Parse(strings.NewReader(src))
}

// parsestmt parses one non-empty statement along with its terminating
// separator. If the statement ends at EOF, the EOF token is pushed back.
func parsestmt(scan *lexer) (*Statement, error) {
	p := parsectx{names: make(map[string]bool)}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if tok.kind == tokenAssign && n.kind == nodeName {
		// The target is not read by the assignment.
		delete(p.names, n.name)
		rhs, err := parseterm(scan, &p, exprprec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeAssign, span: Span{n.span.Start, rhs.span.End}, left: n, right: rhs}
		tok = scan.must()
	}
	switch tok.kind {
	case tokenSemi: // do nothing
	case tokenEOF:
		scan.push(tok)
	default:
		return nil, unexpected(tok, p.follow(n))
	}
	s := Statement{n: n, names: make([]string, 0, len(p.names))}
	for k := range p.names {
		s.names = append(s.names, k)
	}
	sortstrs(s.names)
	return &s, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses operands joined by binary operators which bind more
// tightly than until. If there is no error, then parseterm pushes the first
// token it scans that does not continue the term.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		prec := binop(tok.kind)
		if prec.op == nodeNone || !prec.moreBinding(until) {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, span: Span{n.span.Start, rhs.span.End}, left: n, right: rhs}
	}
}

// parselhs parses a single operand: a primary expression preceded by any
// number of unary minus signs. Unary minus binds only to the operand, so it is
// tighter than every binary operator including exponentiation.
func parselhs(scan *lexer, p *parsectx) (*node, error) {
	return parseoperand(scan, p, false)
}

// parseoperand parses an operand. If negated is set, the operand is directly
// under a unary minus, so a literal may have the magnitude of the minimum
// value.
func parseoperand(scan *lexer, p *parsectx, negated bool) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, ok := new(big.Int).SetString(tok.text, 10)
		if !ok || !fits(v) && !(negated && v.Cmp(minMagnitude) == 0) {
			return nil, &LiteralError{Text: tok.text, Span: tok.span}
		}
		return &node{kind: nodeNum, span: tok.span, name: tok.text, num: v}, nil
	case tokenIdent:
		p.names[tok.text] = true
		return &node{kind: nodeName, span: tok.span, name: tok.text}, nil
	case tokenPi:
		return &node{kind: nodePi, span: tok.span}, nil
	case tokenSub:
		rhs, err := parseoperand(scan, p, true)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNeg, span: Span{tok.span.Start, rhs.span.End}, left: rhs}, nil
	case tokenOpen:
		p.depth++
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, unexpected(end, p.follow(nil))
		}
		p.depth--
		return &node{kind: nodeParen, span: Span{tok.span.Start, end.span.End}, left: rhs}, nil
	default:
		return nil, unexpected(tok, operandStart)
	}
}

// operandStart is the set of tokens that can begin an operand.
var operandStart = []tokenKind{tokenNum, tokenIdent, tokenPi, tokenSub, tokenOpen}

// follow returns the set of tokens that can follow a complete operand at the
// current nesting depth. n is the statement parsed so far at depth zero, which
// determines whether an assignment could follow.
func (p *parsectx) follow(n *node) []tokenKind {
	r := []tokenKind{tokenAdd, tokenSub, tokenMul, tokenDiv, tokenPow}
	if p.depth > 0 {
		return append(r, tokenClose)
	}
	if n != nil && n.kind == nodeName {
		r = append(r, tokenAssign)
	}
	return append(r, tokenSemi, tokenEOF)
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token kind. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(kind tokenKind) operator {
	switch kind {
	case tokenAdd:
		return operator{1, false, nodeAdd}
	case tokenSub:
		return operator{1, false, nodeSub}
	case tokenMul:
		return operator{5, false, nodeMul}
	case tokenDiv:
		return operator{5, false, nodeDiv}
	case tokenPow:
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
