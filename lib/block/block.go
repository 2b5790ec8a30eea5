// Package block defines the interface required for read-only blockchain connections.
package block

import (
	"context"
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/GoldenCloudGuy/DecentraPay/lib/block/ethereum"
)

// Chain is an interface that contains the required methods to query an account.
type Chain interface {
	Close()
	// Balance returns the balance of address in the chain's smallest unit, and its balance of the token contract
	// when token is not empty.
	Balance(ctx context.Context, address, token string) (bal, tokBal *big.Int, err error)
	Decimals() int32
}

var ErrNoNode = errors.New("no blockchain node configured")

// Init returns a client to the ethereum node, authenticated with secret if not empty.
func Init(node, secret string) (Chain, error) {
	if node == "" {
		return nil, ErrNoNode
	}

	e, err := ethereum.Init(node, secret)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Amount converts a balance in the smallest unit to a decimal amount (ie. wei to ether with 18 decimals).
func Amount(bal *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(bal, -decimals)
}
