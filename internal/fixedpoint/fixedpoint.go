// Package fixedpoint implements the 18-decimal integer math shared by every
// formula that has an on-chain counterpart. All divisions truncate toward
// zero, matching EVM integer division; a rounding divergence here would make
// off-chain quotes disagree with settlement amounts.
package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"
)

var (
	// One is the wei-fixed scale (1e18).
	One = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	// BpsDenom is the basis-point denominator used by fee math.
	BpsDenom = big.NewInt(10_000)

	// MaxUint256 doubles as the "unsatisfiable"/"infinite" sentinel for
	// quantities that have no finite answer (e.g. collateral ratio with
	// zero debt).
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// MulDiv returns (a*b)/den with truncation toward zero. The intermediate
// product is arbitrary precision, so the usual uint256 overflow concerns do
// not apply off-chain. A zero denominator yields zero; callers guard
// denominators that can legitimately be zero.
func MulDiv(a, b, den *big.Int) *big.Int {
	if a == nil || b == nil || den == nil || den.Sign() == 0 {
		return new(big.Int)
	}
	p := new(big.Int).Mul(a, b)
	return p.Quo(p, den)
}

// Div returns a/b with EVM truncation, zero on zero denominator.
func Div(a, b *big.Int) *big.Int {
	if a == nil || b == nil || b.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(a, b)
}

// ToPercent converts a wei-fixed ratio (1e18 == 1.0) to a display percentage.
// Float output is UI-only and must never feed back into settlement math.
func ToPercent(ratio *big.Int) float64 {
	if ratio == nil {
		return 0
	}
	f := new(big.Float).SetInt(ratio)
	f.Quo(f, new(big.Float).SetInt(One))
	v, _ := f.Float64()
	return v * 100
}

// FromPercent converts a display percentage to a wei-fixed ratio.
func FromPercent(pct float64) *big.Int {
	f := big.NewFloat(pct / 100)
	f.Mul(f, new(big.Float).SetInt(One))
	out, _ := f.Int(nil)
	return out
}

// FromDecimalString parses a decimal string like "73333.33" into a wei-fixed
// integer. More than 18 fractional digits is rejected rather than silently
// rounded.
func FromDecimalString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty decimal string")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 18 {
		return nil, fmt.Errorf("too many decimal places in %q (max 18)", s)
	}
	if whole == "" {
		whole = "0"
	}
	frac = frac + strings.Repeat("0", 18-len(frac))
	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal string %q", s)
	}
	if neg {
		out.Neg(out)
	}
	return out, nil
}

// Format renders a wei-fixed integer as a decimal string with up to
// `decimals` fractional digits, trailing zeros trimmed.
func Format(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	if decimals < 0 {
		decimals = 0
	}
	if decimals > 18 {
		decimals = 18
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	whole, rem := new(big.Int).QuoRem(abs, One, new(big.Int))
	out := whole.String()
	if decimals > 0 {
		frac := fmt.Sprintf("%018s", rem.String())[:decimals]
		frac = strings.TrimRight(frac, "0")
		if frac != "" {
			out += "." + frac
		}
	}
	if neg && (whole.Sign() != 0 || strings.Contains(out, ".")) {
		out = "-" + out
	}
	return out
}
