// Package amount converts human decimal amounts to integer smallest-unit
// values and back. All arithmetic is arbitrary precision; binary floats are
// never involved.
package amount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest precision an ERC20 token can declare (uint8).
const MaxDecimals = 255

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrInvalidDecimals = fmt.Errorf("decimals must be between 0 and %d", MaxDecimals)
)

// ToSmallestUnit computes floor(amount * 10^decimals) exactly.
func ToSmallestUnit(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, ErrInvalidDecimals
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	// Shift only moves the exponent, so no digits are lost before Floor.
	return amount.Shift(decimals).Floor().BigInt(), nil
}

// FromSmallestUnit renders an integer smallest-unit value as a decimal string
// with trailing zeros trimmed, e.g. 500000000000000000 with 18 decimals is "0.5".
func FromSmallestUnit(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// Equal is exact integer equality. There is no tolerance.
func Equal(expected, actual *big.Int) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	return expected.Cmp(actual) == 0
}

// FractionDigits returns the number of significant fraction digits of d.
func FractionDigits(d decimal.Decimal) int32 {
	s := d.String()
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return int32(len(s) - i - 1)
		}
	}
	return 0
}
