// Package resolver implements the market resolution scheduler: discover
// expired pending markets, read the oracle, determine the outcome, submit
// the resolve transaction, and report per-market results.
//
// Markets are resolved one at a time because every transaction is signed by
// the single resolver account and must be nonce-ordered. Overlapping runs
// are tolerated rather than locked out: resolution is idempotent, a second
// attempt on an already-resolved market fails harmlessly (it does waste gas
// on the losing attempt).
package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gr4yha7/pikolo-sub000/internal/amm"
	"github.com/gr4yha7/pikolo-sub000/internal/chain"
	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

// Scheduler runs the settlement batch. Construct with New; zero value is not
// usable.
type Scheduler struct {
	cfg  config.Config
	gw   chain.Gateway
	meta *MetaStore
	log  zerolog.Logger

	now           func() time.Time
	priceOverride *big.Int
}

type Option func(*Scheduler)

// WithNow pins the clock for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithPriceOverride injects a settlement price instead of reading the
// oracle, for manual and testing flows.
func WithPriceOverride(price *big.Int) Option {
	return func(s *Scheduler) { s.priceOverride = price }
}

func New(cfg config.Config, gw chain.Gateway, meta *MetaStore, log zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:  cfg,
		gw:   gw,
		meta: meta,
		log:  log,
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run executes one settlement batch to completion. The returned error is
// non-nil only for batch-fatal faults (missing configuration, factory
// enumeration failure); per-market faults are recorded in the report and
// never abort the remaining markets.
func (s *Scheduler) Run(ctx context.Context) (models.RunReport, error) {
	report := models.RunReport{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
	}

	if err := s.checkConfig(); err != nil {
		return report, err
	}

	batch, failures, err := s.collectPending(ctx)
	if err != nil {
		return report, err
	}
	for _, f := range failures {
		report.Results = append(report.Results, f)
		report.Failed++
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", f.Market.Hex(), f.Err))
	}

	s.log.Info().Str("run_id", report.ID).Int("pending", len(batch)).Msg("resolving expired markets")

	for _, pm := range batch {
		res := s.resolveOne(ctx, pm)
		report.Results = append(report.Results, res)
		if res.Success {
			report.Resolved++
		} else {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", res.Market.Hex(), res.Err))
		}
	}

	report.FinishedAt = s.now()
	s.log.Info().
		Str("run_id", report.ID).
		Int("resolved", report.Resolved).
		Int("failed", report.Failed).
		Msg("run complete")
	return report, nil
}

// checkConfig re-validates the settings the batch depends on. Missing
// configuration aborts before any market is touched.
func (s *Scheduler) checkConfig() error {
	if s.cfg.ResolverPrivateKey == "" {
		return errors.New("resolver credentials not configured")
	}
	if !common.IsHexAddress(s.cfg.MarketFactoryAddress) {
		return fmt.Errorf("market factory address %q not configured", s.cfg.MarketFactoryAddress)
	}
	return nil
}

// collectPending enumerates the factory and keeps markets that are Pending
// and past expiration. A market whose state cannot be read becomes a
// recorded failure, not a batch abort.
func (s *Scheduler) collectPending(ctx context.Context) ([]models.PendingMarket, []models.ResolutionResult, error) {
	markets, err := s.gw.AllMarkets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate markets: %w", err)
	}

	now := s.now()
	var (
		batch    []models.PendingMarket
		failures []models.ResolutionResult
	)
	for _, addr := range markets {
		data, err := s.gw.MarketData(ctx, addr)
		if err != nil {
			failures = append(failures, models.ResolutionResult{
				Market:  addr,
				Outcome: models.OutcomeUnset,
				Err:     err.Error(),
			})
			continue
		}
		if data.Status != models.StatusPending || !data.IsExpired(now) {
			continue
		}
		batch = append(batch, models.PendingMarket{
			Address:          addr,
			Threshold:        data.Threshold,
			ExpirationTime:   data.ExpirationTime,
			IsAboveThreshold: s.direction(addr),
		})
	}
	return batch, failures, nil
}

// direction looks up the market's threshold direction from the local
// metadata cache. Missing metadata defaults to "above" for backward
// compatibility; the default is deterministic but a market created with the
// opposite intent would resolve backwards, so every application of it is
// logged.
func (s *Scheduler) direction(market common.Address) bool {
	if s.meta != nil {
		if above, ok := s.meta.Direction(market); ok {
			return above
		}
	}
	s.log.Warn().Str("market", market.Hex()).
		Msg("no direction metadata; defaulting to above-threshold")
	return true
}

func (s *Scheduler) resolveOne(ctx context.Context, pm models.PendingMarket) models.ResolutionResult {
	res := models.ResolutionResult{Market: pm.Address, Outcome: models.OutcomeUnset}

	price := s.priceOverride
	if price == nil {
		p, err := s.gw.OraclePrice(ctx)
		if err != nil {
			res.Err = err.Error()
			return res
		}
		price = p
	}
	res.Price = price

	outcome := DetermineOutcome(price, pm.Threshold, pm.IsAboveThreshold)
	res.Outcome = outcome

	txHash, err := s.gw.SubmitResolve(ctx, pm.Address, price, outcome)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.TxHash = &txHash

	ok, err := s.gw.WaitForReceipt(ctx, txHash)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	if !ok {
		res.Err = chain.ErrTxReverted.Error()
		return res
	}

	res.Success = true
	s.log.Info().
		Str("market", pm.Address.Hex()).
		Str("tx", txHash.Hex()).
		Str("outcome", outcome.String()).
		Msg("market resolved")
	s.auditPool(ctx, pm.Address)
	return res
}

// auditPool logs the final implied probability of the settled pool. Pure
// observability; failures here never affect the result.
func (s *Scheduler) auditPool(ctx context.Context, market common.Address) {
	reserves, err := s.gw.Reserves(ctx, market)
	if err != nil {
		return
	}
	price := amm.SharePrice(reserves.Yes, reserves.No, true)
	s.log.Debug().
		Str("market", market.Hex()).
		Float64("implied_yes_pct", amm.ImpliedProbability(price)).
		Msg("post-resolution pool audit")
}

// DetermineOutcome applies the settlement rule: the market resolves Yes when
// the oracle price landing at or above the threshold matches the market's
// declared direction.
func DetermineOutcome(price, threshold *big.Int, isAboveThreshold bool) models.MarketOutcome {
	above := price.Cmp(threshold) >= 0
	if above == isAboveThreshold {
		return models.OutcomeYes
	}
	return models.OutcomeNo
}
