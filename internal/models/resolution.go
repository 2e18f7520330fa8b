package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ResolutionResult records one settlement attempt. Created per attempt,
// never mutated after creation.
type ResolutionResult struct {
	Market  common.Address
	Success bool
	TxHash  *common.Hash
	Outcome MarketOutcome
	Price   *big.Int
	Err     string
}

// RunReport aggregates a full scheduler run.
type RunReport struct {
	ID         string
	Resolved   int
	Failed     int
	Errors     []string
	Results    []ResolutionResult
	StartedAt  time.Time
	FinishedAt time.Time
}
