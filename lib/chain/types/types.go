// Package types defines the key material returned by chain providers and the generation errors.
package types

import (
	"errors"
	"fmt"
)

// Currency labels stored in wallet records.
const (
	ETH  = "ETH"
	BTC  = "BTC"
	SOL  = "SOL"
	XRP  = "XRP"
	XMR  = "XMR"
	BNB  = "BNB"
	USDT = "USDT (ERC20)"
)

// Key is the raw key material produced by a provider. Only the secret fields that apply to the chain are set:
// PrivateKey for ethereum-family, solana and ripple, PrivateKey and Mnemonic for bitcoin, PrivateViewKey for monero.
type Key struct {
	Currency       string
	Address        string
	PrivateKey     string
	Mnemonic       string
	PrivateViewKey string
}

// Errors returned by providers.
var (
	ErrGeneration = errors.New("wallet generation failed")
	ErrIncomplete = errors.New("incomplete key material")
)

// GenerationError wraps the cause of a failed key generation for a currency.
type GenerationError struct {
	Currency string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Currency, ErrGeneration, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrGeneration) hold for any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// Fail returns a GenerationError for currency c.
func Fail(c string, err error) error {
	return &GenerationError{Currency: c, Err: err}
}

// Validate checks that the key carries a currency, an address and at least one secret field.
func (k Key) Validate() error {
	if k.Currency == "" || k.Address == "" {
		return Fail(k.Currency, fmt.Errorf("%w: missing currency or address", ErrIncomplete))
	}

	if k.PrivateKey == "" && k.Mnemonic == "" && k.PrivateViewKey == "" {
		return Fail(k.Currency, fmt.Errorf("%w: no secret material", ErrIncomplete))
	}

	return nil
}
