package intcalc

import (
	"errors"
	"math/big"
)

// Values are 128-bit signed integers held in big.Ints. Every operation checks
// its result against these bounds.
var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	// minMagnitude is the one literal that is valid only when negated.
	minMagnitude = new(big.Int).Lsh(big.NewInt(1), 127)
)

// fits returns whether x is representable as a 128-bit signed integer.
func fits(x *big.Int) bool {
	return x.Cmp(minInt128) >= 0 && x.Cmp(maxInt128) <= 0
}

// InRange returns whether x is a value the calculator can hold.
func InRange(x *big.Int) bool {
	return fits(x)
}

// Domain faults. A DomainError unwraps to one of these.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNegativeExponent = errors.New("negative exponent")
	ErrOverflow         = errors.New("integer overflow")
)

// DomainError is an error returned when an arithmetic operation is applied to
// operands outside the 128-bit integer domain.
type DomainError struct {
	// Fault is ErrDivisionByZero, ErrNegativeExponent, or ErrOverflow.
	Fault error
	// Op is the operator that faulted.
	Op string
	// X is the divisor or exponent that caused the fault. It is nil for
	// overflow.
	X *big.Int
}

func (err *DomainError) Error() string {
	r := err.Fault.Error()
	if err.Op != "" {
		r += " in " + err.Op
	}
	if err.X != nil {
		r += " (" + err.X.String() + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Fault
}

// checked returns a DomainError if the result of op does not fit.
func checked(r *big.Int, op string) error {
	if fits(r) {
		return nil
	}
	return &DomainError{Fault: ErrOverflow, Op: op}
}

// arith sets l to l op r for a binary operator node kind.
func arith(kind nodeKind, l, r *big.Int) error {
	switch kind {
	case nodeAdd:
		l.Add(l, r)
		return checked(l, "+")
	case nodeSub:
		l.Sub(l, r)
		return checked(l, "-")
	case nodeMul:
		l.Mul(l, r)
		return checked(l, "*")
	case nodeDiv:
		if r.Sign() == 0 {
			return &DomainError{Fault: ErrDivisionByZero, Op: "/", X: new(big.Int).Set(r)}
		}
		// Quo truncates toward zero.
		l.Quo(l, r)
		return checked(l, "/")
	case nodePow:
		return pow(l, r)
	default:
		panic("intcalc: no arithmetic for node kind " + kind.String())
	}
}

// pow sets l to l**r.
func pow(l, r *big.Int) error {
	if r.Sign() < 0 {
		return &DomainError{Fault: ErrNegativeExponent, Op: "**", X: new(big.Int).Set(r)}
	}
	switch {
	case l.Sign() == 0, l.CmpAbs(big.NewInt(1)) == 0:
		// 0, 1, and -1 stay small for any exponent, so Exp is cheap.
	case r.Cmp(big.NewInt(127)) > 0:
		// |l| >= 2, so the result is at least 2**128.
		return &DomainError{Fault: ErrOverflow, Op: "**"}
	}
	l.Exp(l, r, nil)
	return checked(l, "**")
}

// neg negates x in place.
func neg(x *big.Int) error {
	x.Neg(x)
	return checked(x, "-")
}
