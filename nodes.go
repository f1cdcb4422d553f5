package intcalc

import (
	"math/big"
	"strconv"
	"strings"
)

// Span is a range of byte offsets in the source text. End is exclusive.
type Span struct {
	Start, End int
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}

// node is a node in the abstract syntax tree of a statement.
type node struct {
	kind nodeKind
	span Span

	// name is the variable name for nodeName and the literal text for nodeNum.
	name string
	// num is the value of a nodeNum.
	num *big.Int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)
	nodePi   // push truncated π

	nodeNeg    // evaluate left, then negate
	nodeAdd    // evaluate left, add right
	nodeSub    // evaluate left, sub right
	nodeMul    // evaluate left, mul right
	nodeDiv    // evaluate left, div by right
	nodePow    // evaluate left, exp by right
	nodeAssign // left is the nodeName target, evaluate right and store; pushes nothing
	nodeParen  // evaluate left
)

var nodeNames = [...]string{
	nodeNone:   "None",
	nodeNum:    "Num",
	nodeName:   "Name",
	nodePi:     "Pi",
	nodeNeg:    "Neg",
	nodeAdd:    "Add",
	nodeSub:    "Sub",
	nodeMul:    "Mul",
	nodeDiv:    "Div",
	nodePow:    "Pow",
	nodeAssign: "Assign",
	nodeParen:  "Paren",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// binsyms gives the rendering of each binary operator.
var binsyms = map[nodeKind]string{
	nodeAdd:    " + ",
	nodeSub:    " - ",
	nodeMul:    " * ",
	nodeDiv:    " / ",
	nodePow:    " ** ",
	nodeAssign: " = ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the surface syntax of n. Parentheses appear only where the input
// had them.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum:
		if n.num == nil {
			b.WriteString(n.name)
			return
		}
		b.WriteString(n.num.String())
	case nodeName:
		b.WriteString(n.name)
	case nodePi:
		b.WriteString(Keyword)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeAssign:
		n.left.fmt(b)
		b.WriteString(binsyms[n.kind])
		n.right.fmt(b)
	case nodeParen:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(')')
	default:
		panic("intcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// Statement is a single parsed top-level expression or assignment.
type Statement struct {
	// n is the root node of the statement.
	n *node
	// names is the list of variable names the statement reads.
	names []string
}

// Span returns the source range of the statement, excluding its separator.
func (s *Statement) Span() Span {
	return s.n.span
}

// IsAssignment returns whether the statement assigns a variable rather than
// producing a value.
func (s *Statement) IsAssignment() bool {
	return s.n.kind == nodeAssign
}

// Vars returns the variable names read when evaluating the statement, in
// sorted order. The target of an assignment is not included unless the
// assigned expression also reads it.
func (s *Statement) Vars() []string {
	return append(([]string)(nil), s.names...)
}

// Expr renders the statement without its terminator.
func (s *Statement) Expr() string {
	return s.n.String()
}

// String renders the statement in canonical form followed by a semicolon.
func (s *Statement) String() string {
	var b strings.Builder
	s.n.fmt(&b)
	b.WriteByte(';')
	return b.String()
}

// Program is the ordered list of statements parsed from one input.
type Program struct {
	stmts []*Statement
}

// Statements returns the statements of the program in source order.
func (p *Program) Statements() []*Statement {
	return append(([]*Statement)(nil), p.stmts...)
}

// Len returns the number of statements in the program.
func (p *Program) Len() int {
	return len(p.stmts)
}

// String renders every statement of the program separated by single spaces.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.stmts {
		if i > 0 {
			b.WriteByte(' ')
		}
		s.n.fmt(&b)
		b.WriteByte(';')
	}
	return b.String()
}
