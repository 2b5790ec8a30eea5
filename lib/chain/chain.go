// Package chain defines the interface of the key providers of each supported blockchain and the registry used to
// resolve the wallet type requested by clients.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/bitcoin"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/ethereum"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/monero"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/ripple"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/solana"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
	"github.com/GoldenCloudGuy/DecentraPay/lib/config"
)

// Provider generates a fresh keypair for one blockchain. Synchronous providers return as soon as the key is
// derived; providers backed by an external wallet service block until the service has answered. On error no key
// material is returned.
type Provider interface {
	Currency() string
	Generate(ctx context.Context) (types.Key, error)
}

// Wallet types accepted by the registry.
const (
	Ethereum = "ethereum"
	Bitcoin  = "bitcoin"
	Solana   = "solana"
	XRP      = "xrp"
	Monero   = "monero"
	BNB      = "bnb"
	USDT     = "usdt"
)

// ErrUnsupported is returned when resolving a wallet type that is not registered.
var ErrUnsupported = errors.New("not supported")

// UnsupportedError carries the requested wallet type.
type UnsupportedError struct {
	Type string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("Wallet type %q %s", e.Type, ErrUnsupported)
}

// Is makes errors.Is(err, ErrUnsupported) hold.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Registry maps wallet types to providers. It is filled at startup and only read afterwards.
type Registry struct {
	p map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{p: make(map[string]Provider)}
}

// Register adds a provider for a wallet type. Types are case-insensitive.
func (r *Registry) Register(name string, p Provider) {
	r.p[strings.ToLower(name)] = p
}

// Resolve returns the provider of a wallet type, or an UnsupportedError with the lower-cased type.
func (r *Registry) Resolve(name string) (Provider, error) {
	name = strings.ToLower(name)

	p, ok := r.p[name]
	if !ok {
		return nil, &UnsupportedError{Type: name}
	}

	return p, nil
}

// Types returns the registered wallet types sorted.
func (r *Registry) Types() []string {
	l := make([]string, 0, len(r.p))
	for name := range r.p {
		l = append(l, name)
	}

	sort.Strings(l)

	return l
}

// Init loads the providers of all the supported wallet types.
func Init(conf config.ChainConfig) (*Registry, error) {
	btc, err := bitcoin.New(conf.BtcNetwork)
	if err != nil {
		return nil, err
	}

	if err = monero.CheckNetwork(conf.Monero.Network); err != nil {
		return nil, err
	}

	r := NewRegistry()
	r.Register(Ethereum, ethereum.New(types.ETH))
	r.Register(Bitcoin, btc)
	r.Register(Solana, solana.New())
	r.Register(XRP, ripple.New())
	r.Register(Monero, monero.New(monero.Config{
		URL:      conf.Monero.URL,
		Network:  conf.Monero.Network,
		Language: conf.Monero.Language,
		Password: conf.Monero.Password,
		Prefix:   conf.Monero.Prefix,
	}, nil))
	r.Register(BNB, ethereum.New(types.BNB))
	r.Register(USDT, ethereum.New(types.USDT))

	return r, nil
}
