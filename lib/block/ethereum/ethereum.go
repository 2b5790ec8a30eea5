// Implements the block interface for ethereum networks
package ethereum

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tarancss/ethcli"
)

// Decimals of ether.
const Decimals = 18

// Errors returned
var (
	ErrBadAddress = errors.New("invalid ethereum address")
	ErrBadToken   = errors.New("invalid token contract address")
	ErrConnect    = errors.New("cannot connect to ethereum node")
)

// Ethereum implements a connection to an ethereum-type chain.
type Ethereum struct {
	c *ethcli.EthCli
}

// Init returns a connection to an ethereum node, using secret if necessary for authentication.
func Init(node, secret string) (*Ethereum, error) {
	c := ethcli.Init(node, secret)
	if c == nil {
		return nil, ErrConnect
	}

	return &Ethereum{c: c}, nil
}

// Close ends a connection
func (e *Ethereum) Close() {
	e.c.End()
}

// Decimals returns the decimals of ether.
func (e *Ethereum) Decimals() int32 {
	return Decimals
}

// Balance returns the wei balance of address, and its balance of the ERC20 token contract if token is not empty.
// An address that never held the token has a zero token balance.
func (e *Ethereum) Balance(ctx context.Context, address, token string) (bal, tokBal *big.Int, err error) {
	if !common.IsHexAddress(address) {
		return nil, nil, ErrBadAddress
	}

	if token != "" && !common.IsHexAddress(token) {
		return nil, nil, ErrBadToken
	}

	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}

	bal, tokBal = new(big.Int), new(big.Int)

	if err = e.c.GetBalance(address, token, bal, tokBal); err != nil {
		if token == "" || !errors.Is(err, ethcli.ErrBadAmt) {
			return nil, nil, err
		}

		tokBal.SetInt64(0)
	}

	return bal, tokBal, nil
}
