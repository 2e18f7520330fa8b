package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MarketStatus mirrors the on-chain market lifecycle enum. Pending moves to
// Resolved exactly once; Resolved and Cancelled are terminal.
type MarketStatus uint8

const (
	StatusPending MarketStatus = iota
	StatusResolved
	StatusCancelled
)

func (s MarketStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusResolved:
		return "RESOLVED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// MarketOutcome mirrors the on-chain outcome enum. OutcomeUnset is the
// off-chain representation of a market that has not resolved.
type MarketOutcome uint8

const (
	OutcomeNo    MarketOutcome = 0
	OutcomeYes   MarketOutcome = 1
	OutcomeUnset MarketOutcome = 255
)

func (o MarketOutcome) String() string {
	switch o {
	case OutcomeNo:
		return "NO"
	case OutcomeYes:
		return "YES"
	default:
		return "UNSET"
	}
}

// MarketData is the snapshot of a market read through the chain gateway.
// Threshold and ResolvedPrice are wei-fixed.
type MarketData struct {
	Status         MarketStatus
	Threshold      *big.Int
	ExpirationTime int64
	Outcome        MarketOutcome
	ResolvedPrice  *big.Int
}

func (d MarketData) Expiration() time.Time { return time.Unix(d.ExpirationTime, 0) }

func (d MarketData) IsExpired(now time.Time) bool {
	return d.ExpirationTime <= now.Unix()
}

// Reserves is a snapshot of the constant-product pool.
type Reserves struct {
	Yes *big.Int
	No  *big.Int
}

// Position is a user's share balances in one market.
type Position struct {
	YesShares *big.Int
	NoShares  *big.Int
}

// PendingMarket is one entry of the per-run settlement batch: a market that
// is Pending and past expiration, plus the direction metadata needed to
// declare the winner. Built at the start of a scheduler run, discarded after.
type PendingMarket struct {
	Address          common.Address
	Threshold        *big.Int
	ExpirationTime   int64
	IsAboveThreshold bool
}
