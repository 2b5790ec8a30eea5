// Package ripple implements the key provider for the XRP ledger using secp256k1 keys derived from a family seed.
package ripple

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/mr-tron/base58"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

// Version prefixes of encoded seeds and account ids.
const (
	SeedVersion    byte = 0x21
	AccountVersion byte = 0x00
	EntropySize         = 16
)

// Alphabet is the base58 alphabet used by the XRP ledger.
var Alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz") //nolint:gochecknoglobals

// Errors decoding seeds.
var (
	ErrSeedLength   = errors.New("seed has wrong length")
	ErrSeedVersion  = errors.New("seed has wrong version prefix")
	ErrSeedChecksum = errors.New("seed checksum does not match")
)

// Ripple generates XRP accounts reading seed entropy from Rand.
type Ripple struct {
	Rand io.Reader
}

// New returns a provider using crypto/rand.
func New() *Ripple {
	return &Ripple{Rand: rand.Reader}
}

// Currency returns types.XRP.
func (r *Ripple) Currency() string {
	return types.XRP
}

// Generate draws a random seed and derives the first account keypair from it. Only the account private key
// ("00" + hex) is returned; the seed is not kept.
func (r *Ripple) Generate(_ context.Context) (types.Key, error) {
	entropy := make([]byte, EntropySize)
	if _, err := io.ReadFull(r.Rand, entropy); err != nil {
		return types.Key{}, types.Fail(types.XRP, err)
	}

	priv, pub := Derive(entropy)

	k := types.Key{
		Currency:   types.XRP,
		Address:    Address(pub),
		PrivateKey: priv,
	}

	return k, k.Validate()
}

// encodeSeed returns the family seed ("s...") of entropy.
func encodeSeed(entropy []byte) string {
	return check(SeedVersion, entropy)
}

// decodeSeed returns the entropy of a family seed.
func decodeSeed(seed string) ([]byte, error) {
	b, err := base58.DecodeAlphabet(seed, Alphabet)
	if err != nil {
		return nil, err
	}

	if len(b) != 1+EntropySize+4 {
		return nil, ErrSeedLength
	}

	if b[0] != SeedVersion {
		return nil, ErrSeedVersion
	}

	sum := checksum(b[:1+EntropySize])
	if !bytes.Equal(sum, b[1+EntropySize:]) {
		return nil, ErrSeedChecksum
	}

	return b[1 : 1+EntropySize], nil
}

// Derive returns the private key ("00" followed by 32 upper-case hex bytes) and the compressed public key of the
// first account of the seed entropy.
func Derive(entropy []byte) (string, []byte) {
	n := btcec.S256().Params().N

	root := scalar(entropy, nil)
	_, rootPub := btcec.PrivKeyFromBytes(root.FillBytes(make([]byte, 32)))

	var account uint32

	k := scalar(rootPub.SerializeCompressed(), &account)
	k.Add(k, root).Mod(k, n)

	privBytes := k.FillBytes(make([]byte, 32))
	_, pub := btcec.PrivKeyFromBytes(privBytes)

	return "00" + strings.ToUpper(hex.EncodeToString(privBytes)), pub.SerializeCompressed()
}

// Address returns the classic address ("r...") of a compressed public key.
func Address(pub []byte) string {
	return check(AccountVersion, btcutil.Hash160(pub))
}

// scalar returns the first half of SHA-512(b || discrim || seq) that is a valid secp256k1 private key, trying
// seq = 0, 1, ...
func scalar(b []byte, discrim *uint32) *big.Int {
	n := btcec.S256().Params().N
	u32 := make([]byte, 4)

	for seq := uint32(0); ; seq++ {
		h := sha512.New()
		h.Write(b)

		if discrim != nil {
			binary.BigEndian.PutUint32(u32, *discrim)
			h.Write(u32)
		}

		binary.BigEndian.PutUint32(u32, seq)
		h.Write(u32)

		k := new(big.Int).SetBytes(h.Sum(nil)[:32])
		if k.Sign() > 0 && k.Cmp(n) < 0 {
			return k
		}
	}
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])

	return second[:4]
}

// check base58check encodes version || payload with the ledger alphabet.
func check(version byte, payload []byte) string {
	b := make([]byte, 0, 1+len(payload)+4)
	b = append(b, version)
	b = append(b, payload...)
	b = append(b, checksum(b)...)

	return base58.EncodeAlphabet(b, Alphabet)
}
