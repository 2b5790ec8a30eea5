// Package memory implements an in-memory store, used when no database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

// Memory is an in-memory store.DB.
type Memory struct {
	mu      sync.RWMutex
	wallets map[string]store.Wallet
	prices  []store.Price
	rates   []store.Rate
}

// New returns an empty Memory store.
func New() *Memory {
	return &Memory{wallets: make(map[string]store.Wallet)}
}

// AddWallet stores w keyed by its id.
func (m *Memory) AddWallet(_ context.Context, w store.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.wallets[w.ID]; ok {
		return store.ErrDuplicateID
	}

	m.wallets[w.ID] = w

	return nil
}

// GetWallet returns the wallet with the given id.
func (m *Memory) GetWallet(_ context.Context, id string) (store.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.wallets[id]
	if !ok {
		return store.Wallet{}, store.ErrWalletNotFound
	}

	return w, nil
}

// AddPrices appends price snapshot rows.
func (m *Memory) AddPrices(_ context.Context, p []store.Price) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prices = append(m.prices, p...)

	return nil
}

// AddRates appends exchange rate snapshot rows.
func (m *Memory) AddRates(_ context.Context, r []store.Rate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rates = append(m.rates, r...)

	return nil
}

// Prices returns a copy of the stored price rows.
func (m *Memory) Prices() []store.Price {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]store.Price(nil), m.prices...)
}

// Rates returns a copy of the stored rate rows.
func (m *Memory) Rates() []store.Rate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]store.Rate(nil), m.rates...)
}

// Len returns the number of stored wallets.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.wallets)
}
