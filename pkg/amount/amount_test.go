package amount

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad big int literal %s", s)
	return v
}

func TestToSmallestUnit(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
	}{
		{"half ether", "0.5", 18, "500000000000000000"},
		{"one wei", "0.000000000000000001", 18, "1"},
		{"usdc ten", "10", 6, "10000000"},
		{"zero decimals", "42", 0, "42"},
		{"floors extra precision", "1.0000009", 6, "1000000"},
		{"large amount", "123456789.123456789123456789", 18, "123456789123456789123456789"},
		{"zero", "0", 18, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSmallestUnit(decimal.RequireFromString(tt.amount), tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestToSmallestUnit_Errors(t *testing.T) {
	_, err := ToSmallestUnit(decimal.RequireFromString("-1"), 18)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ToSmallestUnit(decimal.RequireFromString("1"), -1)
	assert.ErrorIs(t, err, ErrInvalidDecimals)

	_, err = ToSmallestUnit(decimal.RequireFromString("1"), 256)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
}

func TestFromSmallestUnit(t *testing.T) {
	assert.Equal(t, "0.5", FromSmallestUnit(bigFromString(t, "500000000000000000"), 18))
	assert.Equal(t, "0.499999999999999999", FromSmallestUnit(bigFromString(t, "499999999999999999"), 18))
	assert.Equal(t, "10", FromSmallestUnit(big.NewInt(10000000), 6))
	assert.Equal(t, "0.000000000000000001", FromSmallestUnit(big.NewInt(1), 18))
	assert.Equal(t, "0", FromSmallestUnit(nil, 18))
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int32
	}{
		{"0.5", 18},
		{"1", 18},
		{"0.000000000000000001", 18},
		{"10", 6},
		{"999999.999999", 6},
		{"3.14159", 8},
		{"7", 0},
	}

	for _, c := range cases {
		x := decimal.RequireFromString(c.amount)
		units, err := ToSmallestUnit(x, c.decimals)
		require.NoError(t, err)
		assert.Equal(t, x.String(), FromSmallestUnit(units, c.decimals), "amount %s decimals %d", c.amount, c.decimals)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(big.NewInt(1), big.NewInt(1)))
	assert.False(t, Equal(bigFromString(t, "500000000000000000"), bigFromString(t, "499999999999999999")))
	assert.False(t, Equal(big.NewInt(1), nil))
	assert.True(t, Equal(nil, nil))
}

func TestFractionDigits(t *testing.T) {
	assert.Equal(t, int32(0), FractionDigits(decimal.RequireFromString("10")))
	assert.Equal(t, int32(1), FractionDigits(decimal.RequireFromString("0.5")))
	assert.Equal(t, int32(18), FractionDigits(decimal.RequireFromString("0.000000000000000001")))
}
