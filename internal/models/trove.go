package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Trove is a single collateralized debt position. Collateral, Principal and
// Interest are wei-fixed; Interest accrues on-chain and is never mutated by
// the owner directly.
type Trove struct {
	Owner      common.Address
	Collateral *big.Int
	Principal  *big.Int
	Interest   *big.Int
}

// TotalDebt is principal plus accrued interest.
func (t Trove) TotalDebt() *big.Int {
	p := t.Principal
	if p == nil {
		p = new(big.Int)
	}
	i := t.Interest
	if i == nil {
		i = new(big.Int)
	}
	return new(big.Int).Add(p, i)
}

// IsActive reports whether the trove still exists in the sorted list.
// Closed troves have all fields reset to zero.
func (t Trove) IsActive() bool {
	return t.Collateral != nil && t.Collateral.Sign() > 0
}
