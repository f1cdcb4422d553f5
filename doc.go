// Package intcalc implements an integer calculator with variables.
//
// Input is a list of statements separated by semicolons. A statement is
// either an expression, which produces a value, or an assignment "name = expr",
// which produces nothing and stores the value for later statements. Values are
// 128-bit signed integers; any operation whose result leaves that range fails
// instead of wrapping. An integer literal must also be in range, except that
// the minimum value may be written as a negated literal.
//
// The operators, loosest to tightest, are + and -, then * and / (division
// truncates toward zero), then ** (right-associative), then unary minus.
// Unary minus applies to its operand before exponentiation, so "-2 ** 2" is 4.
// The keyword PI is π truncated to the integer 3.
//
// Parsing is all-or-nothing: the first lexical or syntax error rejects the
// whole input. Evaluation errors are reported per statement, and the
// remaining statements still run against the same Context.
package intcalc
