// Package store defines the interface for database implementations to the wallet and pricer microservices.
package store

import (
	"context"
	"errors"
)

// DB defines required methods for wallets and price snapshots.
type DB interface {
	// methods for wallet service
	AddWallet(context.Context, Wallet) error
	GetWallet(context.Context, string) (Wallet, error)
	// methods for pricer service
	AddPrices(context.Context, []Price) error
	AddRates(context.Context, []Rate) error
}

// Errors returned
var (
	ErrWalletNotFound = errors.New("wallet was not found in store")
	ErrDuplicateID    = errors.New("wallet id already exists in store")
)
