package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

// Gateway is the narrow contract-access capability set consumed by the rest
// of the module. Implementations must apply an explicit timeout to every
// call; a hung RPC must surface as an error, not a stalled scheduler.
type Gateway interface {
	MarketReader
	TroveReader
	OracleReader
	Resolver
}

// MarketReader reads prediction-market state.
type MarketReader interface {
	AllMarkets(ctx context.Context) ([]common.Address, error)
	MarketData(ctx context.Context, market common.Address) (models.MarketData, error)
	Reserves(ctx context.Context, market common.Address) (models.Reserves, error)
	UserPosition(ctx context.Context, market, user common.Address) (models.Position, error)
}

// TroveReader is the sorted-list view used by the hint resolver.
type TroveReader interface {
	TroveListSize(ctx context.Context) (uint64, error)
	ApproxHint(ctx context.Context, nicr *big.Int, numTrials uint64, seed int64) (common.Address, error)
	FindInsertPosition(ctx context.Context, nicr *big.Int, prev, next common.Address) (common.Address, common.Address, error)
}

// OracleReader reads the settlement price feed.
type OracleReader interface {
	OraclePrice(ctx context.Context) (*big.Int, error)
}

// Resolver submits resolution transactions.
type Resolver interface {
	SubmitResolve(ctx context.Context, market common.Address, price *big.Int, outcome models.MarketOutcome) (common.Hash, error)
	WaitForReceipt(ctx context.Context, tx common.Hash) (bool, error)
}
