// Package collateral computes trove health figures: liquidation price,
// buffer to liquidation, collateral ratio and its UI classification, and the
// price-independent nominal ICR used to order troves on-chain.
package collateral

import (
	"math/big"

	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
)

// RatioInfinite is the sentinel for a ratio with zero debt.
var RatioInfinite = fixedpoint.MaxUint256

// DefaultMCRPercent is the protocol minimum collateral ratio.
const DefaultMCRPercent = 110

// HealthLevel classifies a collateral ratio for display.
type HealthLevel string

const (
	HealthDanger  HealthLevel = "danger"
	HealthWarning HealthLevel = "warning"
	HealthHealthy HealthLevel = "healthy"
)

// UI classification cutoffs, wei-fixed percent. Fixed display policy, not
// derived from MCR/CCR.
var (
	dangerBelow  = new(big.Int).Mul(big.NewInt(150), fixedpoint.One)
	healthyAbove = new(big.Int).Mul(big.NewInt(200), fixedpoint.One)
)

// LiquidationPrice returns the collateral price at which the position
// becomes liquidatable: totalDebt * mcrPercent/100 / collateral, wei-fixed.
// Zero when either input is non-positive (no position).
func LiquidationPrice(collateral, totalDebt *big.Int, mcrPercent int64) *big.Int {
	if collateral == nil || totalDebt == nil || collateral.Sign() <= 0 || totalDebt.Sign() <= 0 {
		return new(big.Int)
	}
	scaled := fixedpoint.MulDiv(totalDebt, big.NewInt(mcrPercent), big.NewInt(100))
	return fixedpoint.MulDiv(scaled, fixedpoint.One, collateral)
}

// LiquidationBuffer reports how far the current price sits above the
// liquidation price, as a display percentage, clamped at zero: a price
// already at or below liquidation reports no buffer rather than a negative
// number.
func LiquidationBuffer(currentPrice, liquidationPrice *big.Int) float64 {
	if currentPrice == nil || liquidationPrice == nil || liquidationPrice.Sign() <= 0 {
		return 0
	}
	if currentPrice.Cmp(liquidationPrice) <= 0 {
		return 0
	}
	diff := new(big.Int).Sub(currentPrice, liquidationPrice)
	return fixedpoint.ToPercent(fixedpoint.MulDiv(diff, fixedpoint.One, liquidationPrice))
}

// CollateralRatio returns collateralValueUSD/debtValueUSD*100 as a wei-fixed
// percent (150% == 150e18). Zero debt with positive collateral yields the
// RatioInfinite sentinel, never a crash.
func CollateralRatio(collateralValueUSD, debtValueUSD *big.Int) *big.Int {
	if collateralValueUSD == nil || collateralValueUSD.Sign() <= 0 {
		return new(big.Int)
	}
	if debtValueUSD == nil || debtValueUSD.Sign() == 0 {
		return RatioInfinite
	}
	hundred := new(big.Int).Mul(big.NewInt(100), fixedpoint.One)
	return fixedpoint.MulDiv(collateralValueUSD, hundred, debtValueUSD)
}

// Classify maps a wei-fixed percent ratio to its display health level:
// below 150% danger, 150-200% warning, 200% and above healthy.
func Classify(ratio *big.Int) HealthLevel {
	if ratio == nil || ratio.Cmp(dangerBelow) < 0 {
		return HealthDanger
	}
	if ratio.Cmp(healthyAbove) < 0 {
		return HealthWarning
	}
	return HealthHealthy
}

// NominalICR is the price-independent ranking key used by the sorted trove
// list: collateral*100*1e18/debt. Zero debt ranks highest (sentinel), zero
// collateral lowest.
func NominalICR(collateral, debt *big.Int) *big.Int {
	if collateral == nil || collateral.Sign() <= 0 {
		return new(big.Int)
	}
	if debt == nil || debt.Sign() == 0 {
		return fixedpoint.MaxUint256
	}
	hundred := new(big.Int).Mul(big.NewInt(100), fixedpoint.One)
	return fixedpoint.MulDiv(collateral, hundred, debt)
}
