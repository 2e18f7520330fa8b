package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

var testNow = time.Unix(1_900_000_000, 0)

type fakeGateway struct {
	markets map[common.Address]models.MarketData
	order   []common.Address

	oraclePrice *big.Int
	oracleErr   error

	failSubmit  map[common.Address]error
	revertMined map[common.Address]bool

	submitted []submission
}

type submission struct {
	market  common.Address
	price   *big.Int
	outcome models.MarketOutcome
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		markets:     map[common.Address]models.MarketData{},
		oraclePrice: wei(105_000),
		failSubmit:  map[common.Address]error{},
		revertMined: map[common.Address]bool{},
	}
}

func (g *fakeGateway) addMarket(n int64, data models.MarketData) common.Address {
	addr := common.BigToAddress(big.NewInt(n))
	g.markets[addr] = data
	g.order = append(g.order, addr)
	return addr
}

func (g *fakeGateway) AllMarkets(ctx context.Context) ([]common.Address, error) {
	return g.order, nil
}

func (g *fakeGateway) MarketData(ctx context.Context, market common.Address) (models.MarketData, error) {
	d, ok := g.markets[market]
	if !ok {
		return models.MarketData{}, errors.New("unknown market")
	}
	return d, nil
}

func (g *fakeGateway) Reserves(ctx context.Context, market common.Address) (models.Reserves, error) {
	return models.Reserves{Yes: wei(500), No: wei(500)}, nil
}

func (g *fakeGateway) UserPosition(ctx context.Context, market, user common.Address) (models.Position, error) {
	return models.Position{YesShares: new(big.Int), NoShares: new(big.Int)}, nil
}

func (g *fakeGateway) TroveListSize(ctx context.Context) (uint64, error) { return 0, nil }

func (g *fakeGateway) ApproxHint(ctx context.Context, nicr *big.Int, numTrials uint64, seed int64) (common.Address, error) {
	return common.Address{}, nil
}

func (g *fakeGateway) FindInsertPosition(ctx context.Context, nicr *big.Int, prev, next common.Address) (common.Address, common.Address, error) {
	return common.Address{}, common.Address{}, nil
}

func (g *fakeGateway) OraclePrice(ctx context.Context) (*big.Int, error) {
	if g.oracleErr != nil {
		return nil, g.oracleErr
	}
	return g.oraclePrice, nil
}

func (g *fakeGateway) SubmitResolve(ctx context.Context, market common.Address, price *big.Int, outcome models.MarketOutcome) (common.Hash, error) {
	if err := g.failSubmit[market]; err != nil {
		return common.Hash{}, err
	}
	g.submitted = append(g.submitted, submission{market: market, price: price, outcome: outcome})
	return common.BigToHash(market.Big()), nil
}

func (g *fakeGateway) WaitForReceipt(ctx context.Context, tx common.Hash) (bool, error) {
	if g.revertMined[common.BigToAddress(tx.Big())] {
		return false, nil
	}
	return true, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		ResolverPrivateKey:   "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		MarketFactoryAddress: "0x00000000000000000000000000000000000000aa",
		MarketMetaFile:       filepath.Join(t.TempDir(), "meta.json"),
	}
}

func pendingExpired(threshold int64) models.MarketData {
	return models.MarketData{
		Status:         models.StatusPending,
		Threshold:      wei(threshold),
		ExpirationTime: testNow.Unix() - 60,
	}
}

func newTestScheduler(t *testing.T, gw *fakeGateway, opts ...Option) *Scheduler {
	t.Helper()
	cfg := testConfig(t)
	meta := NewMetaStore(cfg.MarketMetaFile)
	opts = append(opts, WithNow(func() time.Time { return testNow }))
	return New(cfg, gw, meta, zerolog.Nop(), opts...)
}

func wei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), fixedpoint.One)
}

func TestRun_ResolvesExpiredPendingMarkets(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, pendingExpired(100_000))
	gw.addMarket(2, pendingExpired(100_000))

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Resolved)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.ID)
	require.Len(t, gw.submitted, 2)
	// Oracle at 105k, threshold 100k, default direction above: Yes.
	assert.Equal(t, models.OutcomeYes, gw.submitted[0].outcome)
}

func TestRun_SkipsUnexpiredAndTerminalMarkets(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, models.MarketData{
		Status:         models.StatusPending,
		Threshold:      wei(100_000),
		ExpirationTime: testNow.Unix() + 3600,
	})
	gw.addMarket(2, models.MarketData{
		Status:         models.StatusResolved,
		Threshold:      wei(100_000),
		ExpirationTime: testNow.Unix() - 60,
	})
	gw.addMarket(3, models.MarketData{
		Status:         models.StatusCancelled,
		Threshold:      wei(100_000),
		ExpirationTime: testNow.Unix() - 60,
	})

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Resolved)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, gw.submitted)
}

// N pending expired markets with M forced failures: resolved+failed == N,
// len(errors) == M, and the failures never stop the rest of the batch.
func TestRun_PerMarketFailureIsolation(t *testing.T) {
	gw := newFakeGateway()
	const n = 7
	var addrs []common.Address
	for i := int64(1); i <= n; i++ {
		addrs = append(addrs, gw.addMarket(i, pendingExpired(100_000)))
	}
	gw.failSubmit[addrs[1]] = errors.New("execution reverted: already resolved")
	gw.failSubmit[addrs[4]] = errors.New("rpc timeout")

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, n, report.Resolved+report.Failed)
	assert.Equal(t, 2, report.Failed)
	assert.Len(t, report.Errors, 2)
	assert.Len(t, gw.submitted, n-2)

	success := 0
	for _, r := range report.Results {
		if r.Success {
			success++
			assert.NotNil(t, r.TxHash)
		}
	}
	assert.Equal(t, n-2, success)
}

func TestRun_RevertedReceiptIsFailure(t *testing.T) {
	gw := newFakeGateway()
	addr := gw.addMarket(1, pendingExpired(100_000))
	gw.revertMined[addr] = true

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Resolved)
	assert.Equal(t, 1, report.Failed)
}

func TestRun_UnreadableMarketIsRecordedFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, pendingExpired(100_000))
	// Listed by the factory but unreadable.
	gw.order = append(gw.order, common.BigToAddress(big.NewInt(99)))

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Errors, 1)
}

func TestRun_OracleFailureIsPerMarket(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, pendingExpired(100_000))
	gw.oracleErr = errors.New("feed stale")

	report, err := newTestScheduler(t, gw).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, gw.submitted)
}

func TestRun_PriceOverrideSkipsOracle(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, pendingExpired(100_000))
	gw.oracleErr = errors.New("feed stale")

	report, err := newTestScheduler(t, gw, WithPriceOverride(wei(95_000))).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Resolved)
	require.Len(t, gw.submitted, 1)
	assert.Equal(t, models.OutcomeNo, gw.submitted[0].outcome)
}

func TestRun_MissingConfigIsFatal(t *testing.T) {
	gw := newFakeGateway()
	gw.addMarket(1, pendingExpired(100_000))

	cfg := testConfig(t)
	cfg.ResolverPrivateKey = ""
	sched := New(cfg, gw, nil, zerolog.Nop(), WithNow(func() time.Time { return testNow }))

	_, err := sched.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, gw.submitted, "no market may be touched on config failure")
}

func TestRun_DirectionMetadata(t *testing.T) {
	gw := newFakeGateway()
	below := gw.addMarket(1, pendingExpired(100_000))
	gw.addMarket(2, pendingExpired(100_000))

	cfg := testConfig(t)
	meta := NewMetaStore(cfg.MarketMetaFile)
	require.NoError(t, meta.SetDirection(below, false))

	sched := New(cfg, gw, meta, zerolog.Nop(), WithNow(func() time.Time { return testNow }))
	report, err := sched.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Resolved)

	byMarket := map[common.Address]models.MarketOutcome{}
	for _, s := range gw.submitted {
		byMarket[s.market] = s.outcome
	}
	// Oracle 105k >= 100k: inverted market resolves No, defaulted market Yes.
	assert.Equal(t, models.OutcomeNo, byMarket[below])
	assert.Equal(t, models.OutcomeYes, byMarket[common.BigToAddress(big.NewInt(2))])
}

func TestDetermineOutcome(t *testing.T) {
	threshold := wei(100_000)
	cases := []struct {
		price   int64
		isAbove bool
		want    models.MarketOutcome
	}{
		{105_000, true, models.OutcomeYes},
		{95_000, true, models.OutcomeNo},
		{100_000, true, models.OutcomeYes}, // at-threshold counts as above
		{105_000, false, models.OutcomeNo},
		{95_000, false, models.OutcomeYes},
	}
	for _, tc := range cases {
		got := DetermineOutcome(wei(tc.price), threshold, tc.isAbove)
		assert.Equal(t, tc.want, got, fmt.Sprintf("price=%d above=%v", tc.price, tc.isAbove))
	}
}

func TestMetaStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	store := NewMetaStore(path)

	addr := common.BigToAddress(big.NewInt(7))
	_, known := store.Direction(addr)
	assert.False(t, known)

	require.NoError(t, store.SetDirection(addr, false))

	reloaded := NewMetaStore(path)
	above, known := reloaded.Direction(addr)
	assert.True(t, known)
	assert.False(t, above)
}
