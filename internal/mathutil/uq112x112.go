package mathutil

import "math/big"

// Q112 is the fixed-point scale of the UQ112x112 format used by the
// cumulative price accumulators: prices are stored as numerator * 2^112.
var Q112 = new(big.Int).Lsh(big.NewInt(1), 112)

// EncodeUQ112 encodes y as a UQ112x112 fixed-point number (y * 2^112).
func EncodeUQ112(y *big.Int) *big.Int {
	return new(big.Int).Lsh(y, 112)
}

// DivUQ112 divides a UQ112x112 value by a plain integer, keeping the
// fixed-point scale. Returns ErrDivisionByZero when y is zero.
func DivUQ112(x, y *big.Int) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return new(big.Int).Quo(x, y), nil
}

// FractionUQ112 returns numerator/denominator as a UQ112x112 value.
func FractionUQ112(numerator, denominator *big.Int) (*big.Int, error) {
	return DivUQ112(EncodeUQ112(numerator), denominator)
}

// MulDecodeUQ112 multiplies a plain amount by a UQ112x112 price and
// decodes the result back to a plain integer (truncating).
func MulDecodeUQ112(price, amount *big.Int) (*big.Int, error) {
	z, err := Mul(price, amount)
	if err != nil {
		return nil, err
	}
	return z.Rsh(z, 112), nil
}
