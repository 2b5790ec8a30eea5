// Package ethereum implements the key provider for ethereum-type chains. The same secp256k1 account format is used
// for ether, BNB (BNB Smart Chain) and USDT as an ERC20 token, so one provider serves the three currencies.
package ethereum

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

// Ethereum generates random ethereum-type accounts tagged with a currency label.
type Ethereum struct {
	currency string
}

// New returns a provider whose keys are tagged with currency (ie. types.ETH, types.BNB or types.USDT).
func New(currency string) *Ethereum {
	return &Ethereum{currency: currency}
}

// Currency returns the label of the generated keys.
func (e *Ethereum) Currency() string {
	return e.currency
}

// Generate creates a random private key and returns its 0x-prefixed hex form and the EIP-55 checksummed address.
func (e *Ethereum) Generate(_ context.Context) (types.Key, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return types.Key{}, types.Fail(e.currency, err)
	}

	k := types.Key{
		Currency:   e.currency,
		Address:    crypto.PubkeyToAddress(pk.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(pk)),
	}

	return k, k.Validate()
}
