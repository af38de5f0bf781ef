// Package mathutil provides checked 256-bit unsigned integer arithmetic
// for pool accounting. All operations treat their operands as values in
// [0, 2^256) and fail loudly instead of wrapping, except for the
// explicitly wrapping helpers used by the price accumulators.
package mathutil

import (
	"errors"
	"math/big"
)

var (
	ErrOverflow       = errors.New("mathutil: overflow")
	ErrUnderflow      = errors.New("mathutil: underflow")
	ErrDivisionByZero = errors.New("mathutil: division by zero")
)

var (
	// MaxUint256 is 2^256 - 1, the largest representable amount.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// MaxUint112 is 2^112 - 1, the largest storable reserve.
	MaxUint112 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

	// modulus256 is 2^256, used by the wrapping helpers.
	modulus256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// Add returns x + y, or ErrOverflow if the sum exceeds MaxUint256.
func Add(x, y *big.Int) (*big.Int, error) {
	z := new(big.Int).Add(x, y)
	if z.Cmp(MaxUint256) > 0 {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns x - y, or ErrUnderflow if y > x.
func Sub(x, y *big.Int) (*big.Int, error) {
	if x.Cmp(y) < 0 {
		return nil, ErrUnderflow
	}
	return new(big.Int).Sub(x, y), nil
}

// Mul returns x * y, or ErrOverflow if the product exceeds MaxUint256.
func Mul(x, y *big.Int) (*big.Int, error) {
	z := new(big.Int).Mul(x, y)
	if z.Cmp(MaxUint256) > 0 {
		return nil, ErrOverflow
	}
	return z, nil
}

// Div returns x / y truncated toward zero, or ErrDivisionByZero.
func Div(x, y *big.Int) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return new(big.Int).Quo(x, y), nil
}

// AddWrap returns (x + y) mod 2^256. The price accumulators are allowed
// to roll over, consumers only ever look at differences.
func AddWrap(x, y *big.Int) *big.Int {
	z := new(big.Int).Add(x, y)
	return z.Mod(z, modulus256)
}

// Sqrt returns the integer square root of x: the largest z with z*z <= x.
func Sqrt(x *big.Int) *big.Int {
	return new(big.Int).Sqrt(x)
}

// Min returns the smaller of x and y.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) < 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Set(y)
}

// Zero returns a fresh zero-valued integer.
func Zero() *big.Int {
	return new(big.Int)
}

// Clone returns a copy of x, treating nil as zero.
func Clone(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}

// IsZero reports whether x is nil or zero.
func IsZero(x *big.Int) bool {
	return x == nil || x.Sign() == 0
}
