// Package hints resolves insertion hints for the on-chain sorted trove list.
// The list is ordered by descending nominal ICR and is not binary-searchable
// on-chain, so every write that moves a trove needs a nearby reference node
// to stay gas-bounded. The search is approximate-then-exact: a weighted
// random walk proposes a candidate, the contract walks from it to the true
// bounds.
package hints

import (
	"context"
	"math"
	"math/big"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/gr4yha7/pikolo-sub000/internal/chain"
	"github.com/gr4yha7/pikolo-sub000/internal/collateral"
)

const trialsPerSqrt = 15

// Result is a hint pair for a sorted-list insertion. Fallback marks the
// degraded zero-hint pair: the write still succeeds but the contract walks
// the full list, costing strictly more gas.
type Result struct {
	Upper    common.Address
	Lower    common.Address
	Fallback bool
}

// Resolver computes hint pairs through a TroveReader.
type Resolver struct {
	troves chain.TroveReader
	log    zerolog.Logger
	seed   func() int64
}

type Option func(*Resolver)

// WithSeed pins the random seed source; production seeding uses math/rand
// since the seed only affects gas efficiency, never correctness (the exact
// refinement step corrects any approximation error).
func WithSeed(seed func() int64) Option {
	return func(r *Resolver) { r.seed = seed }
}

func New(troves chain.TroveReader, log zerolog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		troves: troves,
		log:    log,
		seed:   func() int64 { return rand.Int63() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// InsertionHints returns a hint pair for opening a trove with the given
// collateral and debt. Any failure along the way degrades to zero hints with
// a warning rather than blocking the write.
func (r *Resolver) InsertionHints(ctx context.Context, coll, debt *big.Int) Result {
	nicr := collateral.NominalICR(coll, debt)

	size, err := r.troves.TroveListSize(ctx)
	if err != nil {
		return r.fallback("trove list size", err)
	}
	if size == 0 {
		return r.fallback("trove list size", chain.ErrEmptyTroveList)
	}

	numTrials := uint64(math.Ceil(math.Sqrt(float64(size)))) * trialsPerSqrt
	approx, err := r.troves.ApproxHint(ctx, nicr, numTrials, r.seed())
	if err != nil {
		return r.fallback("approx hint", err)
	}

	upper, lower, err := r.troves.FindInsertPosition(ctx, nicr, approx, approx)
	if err != nil {
		return r.fallback("find insert position", err)
	}
	return Result{Upper: upper, Lower: lower}
}

// AdjustHints computes hints for adjusting an existing trove. The hint
// depends only on the new target NICR, not on whether the trove already
// exists, so this is the open-trove search on the post-adjustment values.
func (r *Resolver) AdjustHints(ctx context.Context, newColl, newDebt *big.Int) Result {
	return r.InsertionHints(ctx, newColl, newDebt)
}

func (r *Resolver) fallback(op string, err error) Result {
	r.log.Warn().Err(err).Str("op", op).
		Msg("hint search degraded to zero hints; the write will walk the full list on-chain")
	return Result{Fallback: true}
}
