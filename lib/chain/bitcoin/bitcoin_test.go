package bitcoin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

const abandon = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// rederive computes the P2PKH address of mnemonic at m/44'/0'/0'/0/0 with go-bip32, independently of hdkeychain.
func rederive(t *testing.T, mnemonic string) string {
	t.Helper()

	key, err := bip32.NewMasterKey(bip39.NewSeed(mnemonic, ""))
	if err != nil {
		t.Fatalf("master key: %v", err)
	}

	for _, i := range []uint32{bip32.FirstHardenedChild + 44, bip32.FirstHardenedChild, bip32.FirstHardenedChild, 0, 0} {
		if key, err = key.NewChildKey(i); err != nil {
			t.Fatalf("derive %d: %v", i, err)
		}
	}

	_, pub := btcec.PrivKeyFromBytes(key.Key)

	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("address: %v", err)
	}

	return addr.EncodeAddress()
}

func TestFromMnemonic(t *testing.T) {
	b, err := New("")
	if err != nil {
		t.Fatal(err)
	}

	k, err := b.FromMnemonic(abandon)
	if err != nil {
		t.Fatalf("FromMnemonic error:%v", err)
	}

	// well known first BIP-44 receive address of the test mnemonic
	if k.Address != "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA" {
		t.Errorf("unexpected address %s", k.Address)
	}

	if k.Currency != types.BTC || k.Mnemonic != abandon {
		t.Errorf("unexpected key %s %s", k.Currency, k.Mnemonic)
	}

	wif, err := btcutil.DecodeWIF(k.PrivateKey)
	if err != nil {
		t.Fatalf("DecodeWIF error:%v", err)
	}

	if !wif.CompressPubKey || !wif.IsForNet(&chaincfg.MainNetParams) {
		t.Errorf("wif should be compressed and for mainnet")
	}
}

// TestRecoveryRoundTrip re-derives generated wallets from their mnemonic with a second BIP-32 implementation.
func TestRecoveryRoundTrip(t *testing.T) {
	b, _ := New("mainnet")

	for i := 0; i < 5; i++ {
		k, err := b.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate error:%v", err)
		}

		if words := strings.Fields(k.Mnemonic); len(words) != 12 {
			t.Errorf("expected 12 words, got %d", len(words))
		}

		if !strings.HasPrefix(k.Address, "1") {
			t.Errorf("P2PKH mainnet address should start with 1: %s", k.Address)
		}

		if got := rederive(t, k.Mnemonic); got != k.Address {
			t.Errorf("re-derived address %s does not match %s", got, k.Address)
		}

		wif, err := btcutil.DecodeWIF(k.PrivateKey)
		if err != nil {
			t.Fatal(err)
		}

		addr, _ := btcutil.NewAddressPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), &chaincfg.MainNetParams)
		if addr.EncodeAddress() != k.Address {
			t.Errorf("wif key does not match address %s", k.Address)
		}
	}
}

func TestBadInput(t *testing.T) {
	if _, err := New("dogenet"); err == nil {
		t.Error("expected error for unknown network")
	}

	b, _ := New("testnet")
	if _, err := b.FromMnemonic("abandon abandon"); !errors.Is(err, types.ErrGeneration) {
		t.Errorf("expected generation error, got %v", err)
	}

	k, err := b.FromMnemonic(abandon)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(k.Address, "m") && !strings.HasPrefix(k.Address, "n") {
		t.Errorf("testnet address expected, got %s", k.Address)
	}
}
