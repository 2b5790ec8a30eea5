// Package bitcoin implements the key provider for bitcoin. Keys are derived from a BIP-39 mnemonic at the BIP-44
// path m/44'/0'/0'/0/0 and the address is pay-to-public-key-hash. The mnemonic is returned as it is the recovery
// backup of the wallet.
package bitcoin

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

// EntropyBits is the entropy used for new mnemonics (12 words).
const EntropyBits = 128

// Path is the derivation path of the account key: purpose, coin type, account, change, index.
var Path = []uint32{ //nolint:gochecknoglobals // fixed BIP-44 path
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 0,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// Bitcoin generates bitcoin wallets for a network.
type Bitcoin struct {
	params *chaincfg.Params
}

// New returns a bitcoin provider for network "mainnet" (default when empty), "testnet" or "regtest".
func New(network string) (*Bitcoin, error) {
	params, err := Params(network)
	if err != nil {
		return nil, err
	}

	return &Bitcoin{params: params}, nil
}

// Params returns the chain parameters of a network name.
func Params(network string) (*chaincfg.Params, error) {
	switch network {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	}

	return nil, fmt.Errorf("unsupported bitcoin network: %s", network)
}

// Currency returns types.BTC.
func (b *Bitcoin) Currency() string {
	return types.BTC
}

// Generate creates a new mnemonic and derives the wallet from it.
func (b *Bitcoin) Generate(_ context.Context) (types.Key, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, err)
	}

	return b.FromMnemonic(mnemonic)
}

// FromMnemonic derives the address and WIF private key of the account key of mnemonic. An empty passphrase is used.
func (b *Bitcoin) FromMnemonic(mnemonic string) (types.Key, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, fmt.Errorf("invalid mnemonic: %w", err))
	}

	key, err := hdkeychain.NewMaster(seed, b.params)
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, fmt.Errorf("master key: %w", err))
	}

	for _, i := range Path {
		if key, err = key.Derive(i); err != nil {
			return types.Key{}, types.Fail(types.BTC, fmt.Errorf("derive %d: %w", i, err))
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, err)
	}

	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(priv.PubKey().SerializeCompressed()), b.params)
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, fmt.Errorf("address: %w", err))
	}

	wif, err := btcutil.NewWIF(priv, b.params, true)
	if err != nil {
		return types.Key{}, types.Fail(types.BTC, fmt.Errorf("wif: %w", err))
	}

	k := types.Key{
		Currency:   types.BTC,
		Address:    addr.EncodeAddress(),
		PrivateKey: wif.String(),
		Mnemonic:   mnemonic,
	}

	return k, k.Validate()
}
