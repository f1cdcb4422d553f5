package intcalc

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. Spans are not compared. If any node is nodeNone, it
// is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num.Cmp(m.num) != 0 {
			return n, m
		}
	case nodeName:
		if n.name != m.name {
			return n, m
		}
	case nodePi:
		// nothing to compare
	case nodeNeg, nodeParen:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeAssign:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

// unparen returns a copy of n with all grouping nodes removed.
func (n *node) unparen() *node {
	if n == nil {
		return nil
	}
	if n.kind == nodeParen {
		return n.left.unparen()
	}
	r := *n
	r.left = n.left.unparen()
	r.right = n.right.unparen()
	return &r
}

// onestmt parses src and requires exactly one statement.
func onestmt(t *testing.T, src string) *Statement {
	t.Helper()
	p, err := ParseString(src)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}
	if p.Len() != 1 {
		t.Fatalf("%q parsed to %d statements, want 1: %v", src, p.Len(), p)
	}
	return p.stmts[0]
}

func TestOpPrecs(t *testing.T) {
	for _, k := range []tokenKind{tokenAdd, tokenSub, tokenMul, tokenDiv, tokenPow} {
		if binop(k).op == nodeNone {
			t.Errorf("no binary operator for %v", k)
		}
	}
	for _, k := range []tokenKind{tokenAssign, tokenOpen, tokenSemi, tokenNum} {
		if binop(k).op != nodeNone {
			t.Errorf("%v is a binary operator", k)
		}
	}
	if !binop(tokenPow).moreBinding(binop(tokenMul)) {
		t.Error("** does not bind tighter than *")
	}
	if !binop(tokenMul).moreBinding(binop(tokenAdd)) {
		t.Error("* does not bind tighter than +")
	}
	if binop(tokenSub).moreBinding(binop(tokenAdd)) {
		t.Error("- is right-associative")
	}
	if !binop(tokenPow).moreBinding(binop(tokenPow)) {
		t.Error("** is left-associative")
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},

		{"neg", "-x", "-(x)"},
		{"negnum", "-1", "-(1)"},
		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"pow", "x**y", "((x)**(y))"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w**x**y**z", "w**(x**(y**z))"},

		{"precedence", "3 + 22 * 11 + 65", "(3 + (22 * 11)) + 65"},
		{"negpow", "-11 ** 3", "(-11) ** 3"},
		{"negpowneg", "-x ** -y", "(-x) ** (-y)"},
		{"desc", "w**x*y+z", "((w**x)*y)+z"},
		{"asc", "w+x*y**z", "w+(x*(y**z))"},
		{"descasc", "w**x*y+z+a*b**c", "(((w**x)*y)+z)+a*(b**c)"},
		{"ascdesc", "w+x*y**z**a*b+c", "w+((x*(y**(z**a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"subneg", "1---2", "1-(-(-2))"},
		{"powneg", "x**-1", "x**(-1)"},
		{"pownegpow", "x**-y**-z", "x**((-y)**(-z))"},
		{"pownegneg", "x**--y", "x**(-(-y))"},
		{"negparen", "-(3 + - 22) * (-11 + 65)", "(-(3 + (-22))) * ((-11) + 65)"},
		{"chain", "-3+-22*-11**3*1+ 65", "((-3) + (((-22) * ((-11) ** 3)) * 1)) + 65"},
		{"chainsub", "-3+-22--11**3*1+ 65", "(((-3) + (-22)) - (((-11) ** 3) * 1)) + 65"},
		{"pi", "2*PI", "2*(PI)"},

		{"assign", "a = 1 + 2", "a = (1 + 2)"},
		{"assignpi", "a=PI**2", "a = (PI ** 2)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := onestmt(t, c.a)
			b := onestmt(t, c.b)
			d, e := a.n.unparen().diff(b.n.unparen())
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "num",
			src:  "  42 ",
			n:    &node{kind: nodeNum, span: Span{2, 4}, name: "42", num: big.NewInt(42)},
		},
		{
			name: "pi",
			src:  "PI",
			n:    &node{kind: nodePi, span: Span{0, 2}},
		},
		{
			name: "negpow",
			src:  "-11 ** 3",
			n: &node{
				kind: nodePow,
				span: Span{0, 8},
				left: &node{
					kind: nodeNeg,
					span: Span{0, 3},
					left: &node{kind: nodeNum, span: Span{1, 3}, name: "11", num: big.NewInt(11)},
				},
				right: &node{kind: nodeNum, span: Span{7, 8}, name: "3", num: big.NewInt(3)},
			},
		},
		{
			name: "paren",
			src:  "(a)*b",
			n: &node{
				kind: nodeMul,
				span: Span{0, 5},
				left: &node{
					kind: nodeParen,
					span: Span{0, 3},
					left: &node{kind: nodeName, span: Span{1, 2}, name: "a"},
				},
				right: &node{kind: nodeName, span: Span{4, 5}, name: "b"},
			},
		},
		{
			name: "assign",
			src:  "x = y",
			n: &node{
				kind:  nodeAssign,
				span:  Span{0, 5},
				left:  &node{kind: nodeName, span: Span{0, 1}, name: "x"},
				right: &node{kind: nodeName, span: Span{4, 5}, name: "y"},
			},
		},
		{
			name: "minlit",
			src:  "-170141183460469231731687303715884105728",
			n: &node{
				kind: nodeNeg,
				span: Span{0, 40},
				left: &node{
					kind: nodeNum,
					span: Span{1, 40},
					name: "170141183460469231731687303715884105728",
					num:  minMagnitude,
				},
			},
		},
		{
			name: "max",
			src:  "170141183460469231731687303715884105727",
			n: &node{
				kind: nodeNum,
				span: Span{0, 39},
				name: "170141183460469231731687303715884105727",
				num:  maxInt128,
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := onestmt(t, c.src)
			if d, e := s.n.diff(c.n); d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, s.n, d, c.src)
			}
			if !exact(s.n, c.n) {
				t.Errorf("mismatched spans or fields:\n\twant %#v\n\tgot  %#v", c.n, s.n)
			}
		})
	}
}

// exact compares every field of two trees, including spans.
func exact(a, b *node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.span != b.span || a.name != b.name {
		return false
	}
	if (a.num == nil) != (b.num == nil) || a.num != nil && a.num.Cmp(b.num) != 0 {
		return false
	}
	return exact(a.left, b.left) && exact(a.right, b.right)
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		stmts []string
	}{
		{"empty", "", nil},
		{"space", " \t\r\n ", nil},
		{"seps", ";;;", nil},
		{"one", "1", []string{"1;"}},
		{"trailing", "1;", []string{"1;"}},
		{"leading", ";1", []string{"1;"}},
		{"dropped", ";;; a= 3 ;;;;;", []string{"a = 3;"}},
		{"several", "a=3;b=5;a+b;", []string{"a = 3;", "b = 5;", "a + b;"}},
		{"spaced", " 1 ; ; 2 ;\n3", []string{"1;", "2;", "3;"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			var got []string
			for _, s := range p.Statements() {
				got = append(got, s.String())
			}
			if !reflect.DeepEqual(got, c.stmts) {
				t.Errorf("%q gave statements %q, want %q", c.src, got, c.stmts)
			}
			if want := strings.Join(c.stmts, " "); p.String() != want {
				t.Errorf("%q rendered as %q, want %q", c.src, p.String(), want)
			}
		})
	}
}

func TestProgramString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "3 + 22 * 11 + 65", "3 + 22 * 11 + 65;"},
		{"chain", "-3+-22*-11**3*1+ 65", "-3 + -22 * -11 ** 3 * 1 + 65;"},
		{"parens", "-(3 + - 22) * (-11 + 65)", "-(3 + -22) * (-11 + 65);"},
		{"nested", "((1))", "((1));"},
		{"assign", "total=a*(b+c)", "total = a * (b + c);"},
		{"pi", "PI*r**2", "PI * r ** 2;"},
		{"leadingzeros", "007", "7;"},
		{"many", "a=1;b=2;a+b", "a = 1; b = 2; a + b;"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if s := p.String(); s != c.want {
				t.Errorf("%q rendered as %q, want %q", c.src, s, c.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"multi", "((((x))))"},
		{"neg", "-x"},
		{"add", "x+y"},
		{"sub", "x-y"},
		{"mul", "x*y"},
		{"div", "x/y"},
		{"pow", "x**y"},
		{"add4", "w+x+y+z"},
		{"sub4", "w-x-y-z"},
		{"pow4", "w**x**y**z"},
		{"negpow", "-1**n"},
		{"desc", "w**x*y+z"},
		{"asc", "w+x*y**z"},
		{"ascdesc", "w+x*y**z**a*b+c"},
		{"negneg", "--x"},
		{"subneg", "1---2"},
		{"powneg", "x**-1"},
		{"pownegpow", "x**-y**-z"},
		{"rightparen", "w-(x-y)"},
		{"assign", "a=(b)-c"},
		{"program", ";a=1;;b=a**2;-b;"},
		{"pi", "PI-PI*PI"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			if a.Len() != b.Len() {
				t.Fatalf("%q -> %q changed statement count from %d to %d", c.src, s, a.Len(), b.Len())
			}
			for i := range a.stmts {
				d, e := a.stmts[i].n.diff(b.stmts[i].n)
				if d != nil || e != nil {
					t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.stmts[i].n, d, s, b.stmts[i].n, e)
				}
			}
			if s2 := b.String(); s2 != s {
				t.Errorf("rendering is not stable: %q then %q", s, s2)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
	}{
		{"plusplus", "1++2", new(TokenError), 2, []string{`(?i)\bunrecognized token\b`, `"\+"`, `"number"`, `"-"`}},
		{"adjacent", "1 2", new(TokenError), 2, []string{`"2"`, `"\*\*"`, `";"`}},
		{"unaryplus", "+1", new(TokenError), 0, []string{`"\+"`}},
		{"trailingop", "1+", new(EOFError), 2, []string{`(?i)\bend of input\b`, `"identifier"`}},
		{"trailingneg", "1*-", new(EOFError), 3, []string{`"PI"`}},
		{"unclosed", "(1", new(EOFError), 2, []string{`"\)"`}},
		{"unopened", "1)", new(TokenError), 1, []string{`"\)"`, `";"`}},
		{"emptyparen", "()", new(TokenError), 1, []string{`"\)"`, `"\("`}},
		{"square", "[1]", new(TokenError), 0, []string{`"\["`}},
		{"squareafter", "1[2]", new(TokenError), 1, []string{`"\["`}},
		{"lexer", "3 + 22 * ? + 65", new(LexError), 9, []string{`'\?'`}},
		{"lexerlate", "1; 2; $", new(LexError), 6, []string{`'\$'`}},
		{"assignexpr", "a+b = 3", new(TokenError), 4, []string{`"="`}},
		{"assignparen", "(a) = 3", new(TokenError), 4, []string{`"="`}},
		{"assignnum", "1 = 3", new(TokenError), 2, []string{`"="`}},
		{"assignnested", "a = b = 3", new(TokenError), 6, []string{`"="`}},
		{"assigninner", "1 + (a = 3)", new(TokenError), 7, []string{`"="`, `"\)"`}},
		{"assignempty", "a =", new(EOFError), 3, nil},
		{"assignpi", "PI = 3", new(TokenError), 3, []string{`"="`}},
		{"bare", "=", new(TokenError), 0, nil},
		{"badlater", "1; 2 +; 3", new(TokenError), 6, []string{`";"`}},
		{"overflow", "170141183460469231731687303715884105728", new(LiteralError), 0, []string{`(?i)\brange\b`}},
		{"overflowsub", "1 - 170141183460469231731687303715884105728", new(LiteralError), 4, []string{`(?i)\brange\b`}},
		{"overflowparen", "-(170141183460469231731687303715884105728)", new(LiteralError), 2, []string{`(?i)\brange\b`}},
		{"overflowneg", "-170141183460469231731687303715884105729", new(LiteralError), 1, []string{`(?i)\brange\b`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			if ie, ok := err.(InputError); !ok {
				t.Errorf("%#v is not an InputError", err)
			} else if ie.Pos() != c.pos {
				t.Errorf("error %q at %d, want %d", err, ie.Pos(), c.pos)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestExpectedSets(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"operand", "1+", []string{"number", "identifier", "PI", "-", "("}},
		{"afternum", "1 2", []string{"+", "-", "*", "/", "**", ";", "end of input"}},
		{"aftername", "a b", []string{"+", "-", "*", "/", "**", "=", ";", "end of input"}},
		{"inparen", "(1 2)", []string{"+", "-", "*", "/", "**", ")"}},
		{"inparenname", "(a", []string{"+", "-", "*", "/", "**", ")"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src)
			var got []string
			switch err := err.(type) {
			case *TokenError:
				got = err.Expected
			case *EOFError:
				got = err.Expected
			default:
				t.Fatalf("%q gave %#v, not a syntax error", c.src, err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("%q expected %q, want %q", c.src, got, c.want)
			}
		})
	}
}

func TestStatementVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"pi", "PI", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w+v+u+t+s+r+q+p+o+n+m+l+k+j+i+h+g+f+e+d+c+b+a", strings.Fields("a b c d e f g h i j k l m n o p q r s t u v w x y z")},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
		{"target", "a = b * 2", []string{"b"}},
		{"selfassign", "a = a + 1", []string{"a"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := onestmt(t, c.src)
			vars := s.Vars()
			if len(vars) == 0 {
				vars = nil
			}
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func TestStatementAccessors(t *testing.T) {
	p, err := ParseString("  a = 1 ;  b  ")
	if err != nil {
		t.Fatal(err)
	}
	ss := p.Statements()
	if len(ss) != 2 {
		t.Fatalf("got %d statements", len(ss))
	}
	if !ss[0].IsAssignment() || ss[1].IsAssignment() {
		t.Errorf("wrong assignment flags: %v %v", ss[0].IsAssignment(), ss[1].IsAssignment())
	}
	if ss[0].Span() != (Span{2, 7}) {
		t.Errorf("first statement at %v", ss[0].Span())
	}
	if ss[1].Span() != (Span{11, 12}) {
		t.Errorf("second statement at %v", ss[1].Span())
	}
	if ss[1].Expr() != "b" {
		t.Errorf("second statement renders %q", ss[1].Expr())
	}
	// Modifying the returned slice does not modify the program.
	ss[0] = nil
	if p.Statements()[0] == nil {
		t.Error("Statements returned the program's own slice")
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w**x*y+z+a*b**c"},
		{"descasc-parens", "(((w**x)*y)+z)+a*(b**c)"},
		{"ascdesc", "w+x*y**z**a*b+c"},
		{"ascdesc-parens", "w+((x*(y**(z**a)))*b)+c"},
		{"nums", "1**11*111+1111-11111/111111"},
		{"program", "a=3;b=5;a+b;a*b;-a**b"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
