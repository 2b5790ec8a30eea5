// Package solana implements the key provider for solana: an ed25519 keypair whose base58 public key is the address.
package solana

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/mr-tron/base58"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

// Solana generates solana keypairs reading randomness from Rand.
type Solana struct {
	Rand io.Reader
}

// New returns a provider using crypto/rand.
func New() *Solana {
	return &Solana{Rand: rand.Reader}
}

// Currency returns types.SOL.
func (s *Solana) Currency() string {
	return types.SOL
}

// Generate returns the base58 address and the hex encoded 64-byte secret key (seed followed by public key).
func (s *Solana) Generate(_ context.Context) (types.Key, error) {
	pub, priv, err := ed25519.GenerateKey(s.Rand)
	if err != nil {
		return types.Key{}, types.Fail(types.SOL, err)
	}

	k := types.Key{
		Currency:   types.SOL,
		Address:    base58.Encode(pub),
		PrivateKey: hex.EncodeToString(priv),
	}

	return k, k.Validate()
}
