// Package chain is the gateway to the on-chain contracts: typed reads over
// eth_call and resolution writes through a keyed transactor. Every call is
// rate limited and bounded by the configured RPC timeout.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

var (
	factoryABI = mustABI(`[{"constant":true,"inputs":[],"name":"getAllMarkets","outputs":[{"name":"","type":"address[]"}],"type":"function"}]`)
	marketABI  = mustABI(`[{"constant":true,"inputs":[],"name":"getMarketInfo","outputs":[{"name":"status","type":"uint8"},{"name":"threshold","type":"uint256"},{"name":"expirationTime","type":"uint256"},{"name":"outcome","type":"uint8"},{"name":"resolvedPrice","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserveYes","type":"uint256"},{"name":"reserveNo","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[{"name":"user","type":"address"}],"name":"getPosition","outputs":[{"name":"yesShares","type":"uint256"},{"name":"noShares","type":"uint256"}],"type":"function"},{"constant":false,"inputs":[{"name":"price","type":"uint256"},{"name":"outcome","type":"uint8"}],"name":"resolveMarket","outputs":[],"type":"function"}]`)

	sortedTrovesABI = mustABI(`[{"constant":true,"inputs":[],"name":"getSize","outputs":[{"name":"","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[{"name":"_NICR","type":"uint256"},{"name":"_prevId","type":"address"},{"name":"_nextId","type":"address"}],"name":"findInsertPosition","outputs":[{"name":"","type":"address"},{"name":"","type":"address"}],"type":"function"}]`)
	hintHelpersABI  = mustABI(`[{"constant":true,"inputs":[{"name":"_CR","type":"uint256"},{"name":"_numTrials","type":"uint256"},{"name":"_inputRandomSeed","type":"uint256"}],"name":"getApproxHint","outputs":[{"name":"hintAddress","type":"address"},{"name":"diff","type":"uint256"},{"name":"latestRandomSeed","type":"uint256"}],"type":"function"}]`)
	priceFeedABI    = mustABI(`[{"constant":true,"inputs":[],"name":"fetchPrice","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`)
)

const receiptPollInterval = 2 * time.Second

// Client implements Gateway against a JSON-RPC endpoint.
type Client struct {
	chainID *big.Int
	ec      *ethclient.Client
	limiter *rate.Limiter
	timeout time.Duration

	privateKey *ecdsa.PrivateKey
	address    common.Address

	factory      common.Address
	sortedTroves common.Address
	hintHelpers  common.Address
	priceFeed    common.Address
}

// NewClient dials the RPC endpoint and derives the resolver address from the
// configured private key.
func NewClient(cfg config.Config) (*Client, error) {
	pk, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.ResolverPrivateKey), "0x"))
	if err != nil {
		return nil, err
	}
	ec, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		chainID:      big.NewInt(cfg.ChainID),
		ec:           ec,
		limiter:      rate.NewLimiter(rate.Limit(10), 20),
		timeout:      cfg.RPCTimeout(),
		privateKey:   pk,
		address:      crypto.PubkeyToAddress(pk.PublicKey),
		factory:      common.HexToAddress(cfg.MarketFactoryAddress),
		sortedTroves: common.HexToAddress(cfg.SortedTrovesAddress),
		hintHelpers:  common.HexToAddress(cfg.HintHelpersAddress),
		priceFeed:    common.HexToAddress(cfg.PriceFeedAddress),
	}, nil
}

func (c *Client) Close() error            { c.ec.Close(); return nil }
func (c *Client) Address() common.Address { return c.address }

func (c *Client) AllMarkets(ctx context.Context) ([]common.Address, error) {
	out, err := c.call(ctx, c.factory, factoryABI, "getAllMarkets")
	if err != nil {
		return nil, err
	}
	markets, ok := out[0].([]common.Address)
	if !ok {
		return nil, &GatewayError{Op: "getAllMarkets", Err: errors.New("malformed response")}
	}
	return markets, nil
}

func (c *Client) MarketData(ctx context.Context, market common.Address) (models.MarketData, error) {
	out, err := c.call(ctx, market, marketABI, "getMarketInfo")
	if err != nil {
		return models.MarketData{}, err
	}
	if len(out) != 5 {
		return models.MarketData{}, &GatewayError{Op: "getMarketInfo", Err: errors.New("malformed response")}
	}
	exp, _ := out[2].(*big.Int)
	if exp == nil {
		exp = new(big.Int)
	}
	return models.MarketData{
		Status:         models.MarketStatus(asUint8(out[0])),
		Threshold:      asBig(out[1]),
		ExpirationTime: exp.Int64(),
		Outcome:        models.MarketOutcome(asUint8(out[3])),
		ResolvedPrice:  asBig(out[4]),
	}, nil
}

func (c *Client) Reserves(ctx context.Context, market common.Address) (models.Reserves, error) {
	out, err := c.call(ctx, market, marketABI, "getReserves")
	if err != nil {
		return models.Reserves{}, err
	}
	if len(out) != 2 {
		return models.Reserves{}, &GatewayError{Op: "getReserves", Err: errors.New("malformed response")}
	}
	return models.Reserves{Yes: asBig(out[0]), No: asBig(out[1])}, nil
}

func (c *Client) UserPosition(ctx context.Context, market, user common.Address) (models.Position, error) {
	out, err := c.call(ctx, market, marketABI, "getPosition", user)
	if err != nil {
		return models.Position{}, err
	}
	if len(out) != 2 {
		return models.Position{}, &GatewayError{Op: "getPosition", Err: errors.New("malformed response")}
	}
	return models.Position{YesShares: asBig(out[0]), NoShares: asBig(out[1])}, nil
}

func (c *Client) TroveListSize(ctx context.Context) (uint64, error) {
	if c.sortedTroves == (common.Address{}) {
		return 0, &GatewayError{Op: "getSize", Err: errors.New("sorted troves address not configured")}
	}
	out, err := c.call(ctx, c.sortedTroves, sortedTrovesABI, "getSize")
	if err != nil {
		return 0, err
	}
	size, ok := out[0].(*big.Int)
	if !ok {
		return 0, &GatewayError{Op: "getSize", Err: errors.New("malformed response")}
	}
	return size.Uint64(), nil
}

func (c *Client) ApproxHint(ctx context.Context, nicr *big.Int, numTrials uint64, seed int64) (common.Address, error) {
	if c.hintHelpers == (common.Address{}) {
		return common.Address{}, &GatewayError{Op: "getApproxHint", Err: errors.New("hint helpers address not configured")}
	}
	out, err := c.call(ctx, c.hintHelpers, hintHelpersABI, "getApproxHint",
		nicr, new(big.Int).SetUint64(numTrials), big.NewInt(seed))
	if err != nil {
		return common.Address{}, err
	}
	hint, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, &GatewayError{Op: "getApproxHint", Err: errors.New("malformed response")}
	}
	return hint, nil
}

func (c *Client) FindInsertPosition(ctx context.Context, nicr *big.Int, prev, next common.Address) (common.Address, common.Address, error) {
	if c.sortedTroves == (common.Address{}) {
		return common.Address{}, common.Address{}, &GatewayError{Op: "findInsertPosition", Err: errors.New("sorted troves address not configured")}
	}
	out, err := c.call(ctx, c.sortedTroves, sortedTrovesABI, "findInsertPosition", nicr, prev, next)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if len(out) != 2 {
		return common.Address{}, common.Address{}, &GatewayError{Op: "findInsertPosition", Err: errors.New("malformed response")}
	}
	upper, _ := out[0].(common.Address)
	lower, _ := out[1].(common.Address)
	return upper, lower, nil
}

func (c *Client) OraclePrice(ctx context.Context) (*big.Int, error) {
	if c.priceFeed == (common.Address{}) {
		return nil, &GatewayError{Op: "fetchPrice", Err: errors.New("price feed address not configured")}
	}
	out, err := c.call(ctx, c.priceFeed, priceFeedABI, "fetchPrice")
	if err != nil {
		return nil, err
	}
	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, &GatewayError{Op: "fetchPrice", Err: errors.New("malformed response")}
	}
	return price, nil
}

// SubmitResolve signs and broadcasts the resolution transaction. The receipt
// is awaited separately so a slow confirmation does not hold the signer lock
// beyond broadcast.
func (c *Client) SubmitResolve(ctx context.Context, market common.Address, price *big.Int, outcome models.MarketOutcome) (common.Hash, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return common.Hash{}, &GatewayError{Op: "resolveMarket", Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return common.Hash{}, &GatewayError{Op: "resolveMarket", Err: err}
	}
	auth.Context = ctx
	auth.GasLimit = 300_000
	auth.GasPrice, _ = c.ec.SuggestGasPrice(ctx)

	bound := bind.NewBoundContract(market, marketABI, c.ec, c.ec, c.ec)
	tx, err := bound.Transact(auth, "resolveMarket", price, uint8(outcome))
	if err != nil {
		return common.Hash{}, translateRevert("resolveMarket", err)
	}
	return tx.Hash(), nil
}

// WaitForReceipt polls for the receipt of a broadcast transaction. Returns
// false with ErrTxReverted when the transaction was mined but failed.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.ec.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status == 1 {
				return true, nil
			}
			return false, ErrTxReverted
		}
		select {
		case <-ctx.Done():
			return false, &GatewayError{Op: "waitForReceipt", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

func (c *Client) call(ctx context.Context, to common.Address, a abi.ABI, method string, args ...any) ([]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &GatewayError{Op: method, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, &GatewayError{Op: method, Err: err}
	}
	res, err := c.ec.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, translateRevert(method, err)
	}
	out, err := a.Unpack(method, res)
	if err != nil {
		return nil, &GatewayError{Op: method, Err: err}
	}
	return out, nil
}

func asBig(v any) *big.Int {
	if b, ok := v.(*big.Int); ok && b != nil {
		return b
	}
	return new(big.Int)
}

func asUint8(v any) uint8 {
	if u, ok := v.(uint8); ok {
		return u
	}
	return 0
}

func mustABI(raw string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return a
}
