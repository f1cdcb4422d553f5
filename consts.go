package intcalc

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// PiPrec is the precision in bits to which π is computed before it is
// truncated to an integer.
const PiPrec = 64

// pival is π truncated toward zero. The evaluator works only in integers, so
// the keyword PI evaluates to 3.
var pival = truncated(bigfloat.Pi)

// truncated computes a constant with a bigfloat function and truncates it to
// an integer.
func truncated(f func(out *big.Float) *big.Float) *big.Int {
	x := f(new(big.Float).SetPrec(PiPrec))
	r, _ := x.Int(nil)
	return r
}

// Pi returns the value of the PI keyword.
func Pi() *big.Int {
	return new(big.Int).Set(pival)
}
