package resolver

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MetaStore is the best-effort local cache of per-market direction metadata
// (market address -> is-above-threshold). It is a UI/automation convenience,
// never the source of truth for settlement: a missing file or entry falls
// back to the documented default in the scheduler.
type MetaStore struct {
	path string

	mu   sync.Mutex
	data map[string]marketMeta
}

type marketMeta struct {
	IsAboveThreshold bool `json:"is_above_threshold"`
}

// NewMetaStore loads the cache from path, ignoring a missing file.
func NewMetaStore(path string) *MetaStore {
	s := &MetaStore{path: path, data: map[string]marketMeta{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(raw, &s.data)
	return s
}

// Direction returns the cached direction flag and whether it was present.
func (s *MetaStore) Direction(market common.Address) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[market.Hex()]
	return m.IsAboveThreshold, ok
}

// SetDirection records a market's direction and persists the cache.
func (s *MetaStore) SetDirection(market common.Address, above bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[market.Hex()] = marketMeta{IsAboveThreshold: above}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
