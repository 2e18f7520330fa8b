package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), One)
}

func TestMulDiv_TruncatesTowardZero(t *testing.T) {
	assert.Equal(t, big.NewInt(10), MulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2)))
	assert.Equal(t, big.NewInt(0), MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(2)))
	// EVM truncation, not floor: -7/2 == -3
	assert.Equal(t, big.NewInt(-3), MulDiv(big.NewInt(-7), big.NewInt(1), big.NewInt(2)))
}

func TestMulDiv_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0, MulDiv(big.NewInt(5), big.NewInt(5), big.NewInt(0)).Sign())
	assert.Equal(t, 0, MulDiv(big.NewInt(5), big.NewInt(5), nil).Sign())
}

func TestMulDiv_DoesNotMutateInputs(t *testing.T) {
	a, b, den := big.NewInt(6), big.NewInt(7), big.NewInt(2)
	MulDiv(a, b, den)
	assert.Equal(t, int64(6), a.Int64())
	assert.Equal(t, int64(7), b.Int64())
	assert.Equal(t, int64(2), den.Int64())
}

func TestToPercent(t *testing.T) {
	assert.InDelta(t, 100.0, ToPercent(One), 1e-9)
	assert.InDelta(t, 50.0, ToPercent(Div(One, big.NewInt(2))), 1e-9)
	assert.InDelta(t, 0.0, ToPercent(nil), 1e-9)
}

func TestFromPercent_RoundTrip(t *testing.T) {
	for _, pct := range []float64{0, 12.5, 50, 100, 150} {
		got := ToPercent(FromPercent(pct))
		assert.InDelta(t, pct, got, 1e-6)
	}
}

func TestFromDecimalString(t *testing.T) {
	cases := []struct {
		in   string
		want *big.Int
	}{
		{"0", big.NewInt(0)},
		{"1", One},
		{"0.5", Div(One, big.NewInt(2))},
		{"1000", wei(1000)},
		{"73333.33", new(big.Int).Add(wei(73333), MulDiv(One, big.NewInt(33), big.NewInt(100)))},
		{"-2.5", new(big.Int).Neg(new(big.Int).Add(wei(2), Div(One, big.NewInt(2))))},
	}
	for _, tc := range cases {
		got, err := FromDecimalString(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, 0, tc.want.Cmp(got), "parse %q: got %s", tc.in, got)
	}
}

func TestFromDecimalString_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1.1234567890123456789"} {
		_, err := FromDecimalString(in)
		assert.Error(t, err, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1000", Format(wei(1000), 2))
	assert.Equal(t, "0.5", Format(Div(One, big.NewInt(2)), 6))
	assert.Equal(t, "0", Format(nil, 2))
	assert.Equal(t, "-2.5", Format(new(big.Int).Neg(new(big.Int).Add(wei(2), Div(One, big.NewInt(2)))), 4))

	v, err := FromDecimalString("90.495679")
	require.NoError(t, err)
	assert.Equal(t, "90.495679", Format(v, 6))
	assert.Equal(t, "90.49", Format(v, 2))
}
