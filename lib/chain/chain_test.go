package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/monero"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
	"github.com/GoldenCloudGuy/DecentraPay/lib/config"
)

// TestResolve checks every supported type resolves case-insensitively to a provider with the expected label.
func TestResolve(t *testing.T) {
	r, err := Init(config.ChainConfig{})
	if err != nil {
		t.Fatalf("Init error:%v", err)
	}

	cases := []struct {
		name, currency string
	}{
		{"ethereum", types.ETH},
		{"Ethereum", types.ETH},
		{"BITCOIN", types.BTC},
		{"solana", types.SOL},
		{"xRp", types.XRP},
		{"monero", types.XMR},
		{"bnb", types.BNB},
		{"USDT", types.USDT},
	}

	for _, c := range cases {
		p, err := r.Resolve(c.name)
		if err != nil {
			t.Errorf("[%s] Resolve error:%v", c.name, err)

			continue
		}

		if p.Currency() != c.currency {
			t.Errorf("[%s] currency %s expected %s", c.name, p.Currency(), c.currency)
		}
	}

	if len(r.Types()) != 7 {
		t.Errorf("unexpected types %v", r.Types())
	}
}

func TestUnsupported(t *testing.T) {
	r, _ := Init(config.ChainConfig{})

	for _, name := range []string{"dogecoin", "DogeCoin", "", "eth", "usdt (erc20)"} {
		p, err := r.Resolve(name)
		if p != nil || !errors.Is(err, ErrUnsupported) {
			t.Errorf("[%s] expected unsupported error, got %v", name, err)
		}
	}

	_, err := r.Resolve("DogeCoin")
	if err.Error() != `Wallet type "dogecoin" not supported` {
		t.Errorf("unexpected message %s", err)
	}
}

func TestInitBadNetwork(t *testing.T) {
	if _, err := Init(config.ChainConfig{BtcNetwork: "nonet"}); err == nil {
		t.Error("expected error for unknown bitcoin network")
	}

	for _, n := range []string{"Mainnet", "main", "regtest"} {
		_, err := Init(config.ChainConfig{Monero: config.MoneroConfig{Network: n}})
		if !errors.Is(err, monero.ErrUnknownNetwork) {
			t.Errorf("[%s] expected unknown monero network, got %v", n, err)
		}
	}

	for _, n := range []string{"", "mainnet", "stagenet", "testnet"} {
		if _, err := Init(config.ChainConfig{Monero: config.MoneroConfig{Network: n}}); err != nil {
			t.Errorf("[%s] unexpected error:%v", n, err)
		}
	}
}

type countingProvider struct {
	n int
}

func (c *countingProvider) Currency() string { return "TST" }

func (c *countingProvider) Generate(_ context.Context) (types.Key, error) {
	c.n++

	return types.Key{Currency: "TST", Address: "addr", PrivateKey: "key"}, nil
}

// TestNoWorkOnUnsupported makes sure unsupported lookups never reach a provider.
func TestNoWorkOnUnsupported(t *testing.T) {
	p := &countingProvider{}
	r := NewRegistry()
	r.Register("Test", p)

	if _, err := r.Resolve("other"); err == nil {
		t.Fatal("expected error")
	}

	got, err := r.Resolve("TEST")
	if err != nil || got != p {
		t.Fatalf("unexpected resolve result %v", err)
	}

	if p.n != 0 {
		t.Error("provider invoked during resolution")
	}
}
