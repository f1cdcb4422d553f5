package intcalc

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Context is the variable environment of a calculator session. Assignments
// made while evaluating one statement are visible to every later statement
// evaluated with the same Context. The zero Context is empty and ready to use.
// It is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Int
	names map[string]*big.Int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Int
	}
	varsopt map[string]*big.Int
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Int) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Int) ContextOption {
	return varsopt(vars)
}

// NewContext creates a new, empty evaluation context and applies options to
// it.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Later
// assignments in either context are not visible in the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Int, 0, cap(ctx.stack)),
		names: make(map[string]*big.Int, len(ctx.names)),
	}
	// Values are never modified in place once stored, so pointers can be
	// shared.
	for name, val := range ctx.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Int).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Int).Set(v)
			}
		default:
			panic("intcalc: unknown option type")
		}
	}
	return &n
}

// Set sets the value of a variable. Returns ctx for chaining. Calling Set
// while the context is being used to evaluate a statement panics.
func (ctx *Context) Set(name string, value *big.Int) *Context {
	if len(ctx.stack) > 0 {
		panic("intcalc: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Int)
	}
	ctx.names[name] = new(big.Int).Set(value)
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Int {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Vars returns the names of all variables defined in the context in sorted
// order.
func (ctx *Context) Vars() []string {
	r := make([]string, 0, len(ctx.names))
	for k := range ctx.names {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Exec evaluates a single statement. An expression statement results in its
// value; an assignment updates the context and results in nil with a nil
// error.
func (ctx *Context) Exec(s *Statement) (*big.Int, error) {
	if len(ctx.stack) != 0 {
		panic("intcalc: Exec during Exec")
	}
	defer func() { ctx.stack = ctx.stack[:0] }()
	if err := s.n.eval(ctx); err != nil {
		return nil, err
	}
	switch len(ctx.stack) {
	case 0:
		if s.n.kind == nodeAssign {
			return nil, nil
		}
		return nil, &TreeError{Span: s.n.span, Expr: s.n.String()}
	case 1:
		return new(big.Int).Set(ctx.stack[0]), nil
	default:
		panic("intcalc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Run evaluates each statement of a program in order. A statement that fails
// does not prevent later statements from being evaluated.
func (ctx *Context) Run(p *Program) Results {
	r := make(Results, len(p.stmts))
	for i, s := range p.stmts {
		v, err := ctx.Exec(s)
		r[i] = Result{Stmt: s, Value: v, Err: err}
	}
	return r
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Int {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Int)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Int))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Int {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Int {
	return ctx.stack[len(ctx.stack)-1]
}

// value evaluates a node which must push exactly one value.
func (n *node) value(ctx *Context) error {
	k := len(ctx.stack)
	if err := n.eval(ctx); err != nil {
		ctx.stack = ctx.stack[:k]
		return err
	}
	if len(ctx.stack) != k+1 {
		ctx.stack = ctx.stack[:k]
		return &TreeError{Span: n.span, Expr: n.String()}
	}
	return nil
}

// eval pushes the node's value to the context's stack. Assignments push
// nothing.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(n.num)
	case nodePi:
		ctx.push().Set(pival)
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().Set(v)
	case nodeNeg:
		if err := n.left.value(ctx); err != nil {
			return err
		}
		return neg(ctx.top())
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		// Both operands are always evaluated. The left error wins.
		lerr := n.left.value(ctx)
		rerr := n.right.value(ctx)
		if lerr != nil {
			return lerr
		}
		if rerr != nil {
			return rerr
		}
		r := ctx.pop()
		l := ctx.top()
		return arith(n.kind, l, r)
	case nodeAssign:
		if err := n.right.value(ctx); err != nil {
			return err
		}
		v := ctx.pop()
		if n.left == nil || n.left.kind != nodeName {
			return &TreeError{Span: n.span, Expr: n.String()}
		}
		if ctx.names == nil {
			ctx.names = make(map[string]*big.Int)
		}
		ctx.names[n.left.name] = new(big.Int).Set(v)
	case nodeParen:
		return n.left.value(ctx)
	default:
		return &TreeError{Span: n.span, Expr: n.kind.String()}
	}
	return nil
}

// Result is the outcome of evaluating one statement.
type Result struct {
	// Stmt is the evaluated statement.
	Stmt *Statement
	// Value is the statement's value, or nil if the statement is an
	// assignment or if evaluation failed.
	Value *big.Int
	// Err is the evaluation error, if any.
	Err error
}

// String formats the result as it is shown to a user: "expr = value;" for a
// value, the error and the statement for a failure, and nothing for an
// assignment.
func (r Result) String() string {
	switch {
	case r.Err != nil:
		return r.Err.Error() + ". Context: '" + r.Stmt.Expr() + "'"
	case r.Value != nil:
		return r.Stmt.Expr() + " = " + r.Value.String() + ";"
	default:
		return ""
	}
}

// Results is the list of outcomes from evaluating a program.
type Results []Result

// String joins the formatted results with spaces, skipping assignments.
func (rs Results) String() string {
	var b strings.Builder
	for _, r := range rs {
		s := r.String()
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteByte(' ')
	}
	return strings.TrimSuffix(b.String(), " ")
}

// Err returns the first evaluation error among the results, if any.
func (rs Results) Err() error {
	for _, r := range rs {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Last returns the value of the last statement, or nil if there are no
// results or the last statement produced no value.
func (rs Results) Last() *big.Int {
	if len(rs) == 0 {
		return nil
	}
	return rs[len(rs)-1].Value
}

// Eval is a shortcut to parse a program and evaluate it in a new context.
func Eval(src io.RuneScanner, opts ...ContextOption) (Results, error) {
	p, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return NewContext(opts...).Run(p), nil
}

// EvalString is a shortcut to parse and evaluate a string.
func EvalString(src string, opts ...ContextOption) (Results, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "unknown variable: " + strconv.Quote(err.Name)
}

// TreeError is an error indicating a syntax tree that cannot be evaluated,
// such as an assignment where a value is required.
type TreeError struct {
	// Span is the location of the offending node.
	Span Span
	// Expr is the rendering of the offending node.
	Expr string
}

func (err *TreeError) Error() string {
	return "wrong node tree at " + err.Span.String() + ": " + err.Expr
}
