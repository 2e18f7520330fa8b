// Package amm mirrors the on-chain constant-product bonding curve. The same
// formulas serve UI quoting and the resolution scheduler's post-settlement
// audit, so every function here must agree bit-for-bit with the contract.
package amm

import (
	"math/big"

	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
)

// Unsatisfiable is returned by AmountOut when the requested sale cannot be
// absorbed by the pool. It is the uint256 max sentinel, never a real quote.
var Unsatisfiable = fixedpoint.MaxUint256

// SharesOut quotes the shares received for amountIn paid into the pool, with
// the fee taken in basis points on the way in.
//
// An empty pool (either reserve zero) bootstraps 1:1: the first buyer gets
// exactly amountIn shares. Otherwise:
//
//	amountInWithFee = amountIn * (10000 - feeBps)
//	sharesOut       = amountInWithFee * reserveOut / (reserveIn*10000 + amountInWithFee)
//
// The result is strictly below reserveOut for any finite amountIn since the
// denominator grows with the input.
func SharesOut(amountIn, reserveIn, reserveOut *big.Int, feeBps int64) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return new(big.Int)
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return new(big.Int).Set(amountIn)
	}
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(10_000-feeBps))
	den := new(big.Int).Mul(reserveIn, fixedpoint.BpsDenom)
	den.Add(den, amountInWithFee)
	return fixedpoint.MulDiv(amountInWithFee, reserveOut, den)
}

// AmountOut is the dual quote for selling sharesIn back into the pool:
// reserveIn is the reserve of the side being sold, reserveOut the reserve
// paying out. A sale of sharesIn >= reserveOut is unsatisfiable and returns
// the sentinel instead of a number the pool could never pay.
func AmountOut(sharesIn, reserveIn, reserveOut *big.Int, feeBps int64) *big.Int {
	if sharesIn == nil || sharesIn.Sign() <= 0 {
		return new(big.Int)
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return new(big.Int).Set(sharesIn)
	}
	if sharesIn.Cmp(reserveOut) >= 0 {
		return Unsatisfiable
	}
	sharesInWithFee := new(big.Int).Mul(sharesIn, big.NewInt(10_000-feeBps))
	den := new(big.Int).Mul(reserveIn, fixedpoint.BpsDenom)
	den.Add(den, sharesInWithFee)
	return fixedpoint.MulDiv(sharesInWithFee, reserveOut, den)
}

// SharePrice returns the wei-fixed price of the requested side:
// priceYes = reserveNo / (reserveYes + reserveNo), priceNo the complement.
// An uninitialized pool prices both sides at 0.5 (50/50 prior).
func SharePrice(reserveYes, reserveNo *big.Int, wantYes bool) *big.Int {
	if reserveYes == nil {
		reserveYes = new(big.Int)
	}
	if reserveNo == nil {
		reserveNo = new(big.Int)
	}
	total := new(big.Int).Add(reserveYes, reserveNo)
	if total.Sign() == 0 {
		return fixedpoint.Div(fixedpoint.One, big.NewInt(2))
	}
	yes := fixedpoint.MulDiv(reserveNo, fixedpoint.One, total)
	if wantYes {
		return yes
	}
	// The No price is the literal complement so the two sides always sum to
	// exactly one, truncation notwithstanding.
	return new(big.Int).Sub(fixedpoint.One, yes)
}

// ImpliedProbability converts a wei-fixed share price to a display
// percentage. Display only, no settlement consequence.
func ImpliedProbability(price *big.Int) float64 {
	return fixedpoint.ToPercent(price)
}

// ProbabilityToPrice is the inverse conversion.
func ProbabilityToPrice(pct float64) *big.Int {
	return fixedpoint.FromPercent(pct)
}

// Slippage reports |expected-actual|/expected as a display percentage,
// zero when expected is zero.
func Slippage(expected, actual *big.Int) float64 {
	if expected == nil || expected.Sign() == 0 || actual == nil {
		return 0
	}
	diff := new(big.Int).Sub(expected, actual)
	diff.Abs(diff)
	ratio := fixedpoint.MulDiv(diff, fixedpoint.One, expected)
	return fixedpoint.ToPercent(ratio)
}
