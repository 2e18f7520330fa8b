// Package config loads the environment-sourced configuration once, validates
// it eagerly, and hands back a plain struct that is passed explicitly to
// every component. Missing required settings are a fatal error at load time,
// never a silent default discovered deep in a call chain.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

const DefaultRPCURL = "https://rpc.test.mezo.org"

type Config struct {
	// Resolver identity
	ResolverPrivateKey string
	ChainID            int64

	// Contracts
	MarketFactoryAddress string
	SortedTrovesAddress  string
	HintHelpersAddress   string
	PriceFeedAddress     string

	// Chain access
	RPCURL            string
	RPCTimeoutSeconds int

	// Scheduler
	ResolveIntervalSeconds int
	MarketMetaFile         string

	// HTTP automation endpoint
	ServerHost string
	ServerPort int

	LogLevel string
	LogFile  string
}

// Load reads .env (best-effort) plus the process environment and validates
// the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ResolverPrivateKey: os.Getenv("RESOLVER_PRIVATE_KEY"),
		ChainID:            mustInt64("CHAIN_ID", 31611),

		MarketFactoryAddress: os.Getenv("MARKET_FACTORY_ADDRESS"),
		SortedTrovesAddress:  os.Getenv("SORTED_TROVES_ADDRESS"),
		HintHelpersAddress:   os.Getenv("HINT_HELPERS_ADDRESS"),
		PriceFeedAddress:     os.Getenv("PRICE_FEED_ADDRESS"),

		RPCURL:            envOr("RPC_URL", DefaultRPCURL),
		RPCTimeoutSeconds: mustInt("RPC_TIMEOUT_SECONDS", 30),

		ResolveIntervalSeconds: mustInt("RESOLVE_INTERVAL_SECONDS", 300),
		MarketMetaFile:         envOr("MARKET_META_FILE", "market_meta.json"),

		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),
		ServerPort: mustInt("SERVER_PORT", 8080),

		LogLevel: envOr("LOG_LEVEL", "info"),
		LogFile:  envOr("LOG_FILE", ""),
	}

	return cfg, validate(cfg)
}

func (c Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutSeconds) * time.Second
}

func (c Config) ResolveInterval() time.Duration {
	return time.Duration(c.ResolveIntervalSeconds) * time.Second
}

func validate(c Config) error {
	if c.ResolverPrivateKey == "" {
		return errors.New("RESOLVER_PRIVATE_KEY is required")
	}
	if c.MarketFactoryAddress == "" {
		return errors.New("MARKET_FACTORY_ADDRESS is required")
	}
	if !common.IsHexAddress(c.MarketFactoryAddress) {
		return fmt.Errorf("MARKET_FACTORY_ADDRESS %q is not a valid address", c.MarketFactoryAddress)
	}
	for _, opt := range []struct{ name, val string }{
		{"SORTED_TROVES_ADDRESS", c.SortedTrovesAddress},
		{"HINT_HELPERS_ADDRESS", c.HintHelpersAddress},
		{"PRICE_FEED_ADDRESS", c.PriceFeedAddress},
	} {
		if opt.val != "" && !common.IsHexAddress(opt.val) {
			return fmt.Errorf("%s %q is not a valid address", opt.name, opt.val)
		}
	}
	if c.RPCTimeoutSeconds <= 0 {
		return errors.New("RPC_TIMEOUT_SECONDS must be positive")
	}
	if c.ResolveIntervalSeconds <= 0 {
		return errors.New("RESOLVE_INTERVAL_SECONDS must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func mustInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func (c Config) String() string {
	return fmt.Sprintf("chain=%d factory=%s rpc=%s interval=%ds", c.ChainID, c.MarketFactoryAddress, c.RPCURL, c.ResolveIntervalSeconds)
}
