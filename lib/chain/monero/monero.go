// Package monero implements the key provider for monero. Monero wallets are built by a monero-wallet-rpc server:
// the provider asks it to create a new wallet file and then reads the primary address and the private view key of
// the open wallet. The spend key stays in the wallet file kept by the wallet-rpc server.
package monero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
	"github.com/GoldenCloudGuy/DecentraPay/lib/util"
)

// Defaults of the wallet configuration.
const (
	DefaultLanguage = "English"
	DefaultNetwork  = "mainnet"
	DefaultPrefix   = "dpay_"
	timeout         = 60
)

// Errors returned by the provider.
var (
	ErrNoEndpoint     = errors.New("monero wallet-rpc endpoint not configured")
	ErrNetwork        = errors.New("address does not belong to the configured network")
	ErrUnknownNetwork = errors.New("unsupported monero network")
)

// Config contains the wallet-rpc endpoint (ie. http://localhost:18083) and the settings of the created wallets.
type Config struct {
	URL      string `json:"url"`
	Network  string `json:"network"`
	Language string `json:"language"`
	Password string `json:"password"`
	Prefix   string `json:"prefix"`
}

// Monero generates monero wallets through a wallet-rpc server. The wallet-rpc server holds a single open wallet, so
// the create/query sequence of each generation runs under a mutex.
type Monero struct {
	conf Config
	c    *http.Client
	mu   sync.Mutex
}

// New returns a monero provider. A nil client gets a default one with a 60s timeout.
func New(conf Config, c *http.Client) *Monero {
	if conf.Language == "" {
		conf.Language = DefaultLanguage
	}

	if conf.Network == "" {
		conf.Network = DefaultNetwork
	}

	if conf.Prefix == "" {
		conf.Prefix = DefaultPrefix
	}

	if c == nil {
		c = &http.Client{Timeout: timeout * time.Second}
	}

	return &Monero{conf: conf, c: c}
}

// Currency returns types.XMR.
func (m *Monero) Currency() string {
	return types.XMR
}

// Generate creates a new wallet file and returns its primary address and private view key.
func (m *Monero) Generate(ctx context.Context) (types.Key, error) {
	if m.conf.URL == "" {
		return types.Key{}, types.Fail(types.XMR, ErrNoEndpoint)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	create := map[string]string{
		"filename": m.conf.Prefix + uuid.NewString(),
		"password": m.conf.Password,
		"language": m.conf.Language,
	}
	if err := m.call(ctx, "create_wallet", create, nil); err != nil {
		return types.Key{}, types.Fail(types.XMR, err)
	}

	// the new wallet stays open in wallet-rpc until closed
	closed := false

	defer func() {
		if !closed {
			_ = m.call(context.WithoutCancel(ctx), "close_wallet", nil, nil)
		}
	}()

	var addr struct {
		Address string `json:"address"`
	}
	if err := m.call(ctx, "get_address", map[string]uint32{"account_index": 0}, &addr); err != nil {
		return types.Key{}, types.Fail(types.XMR, err)
	}

	if !InNetwork(addr.Address, m.conf.Network) {
		return types.Key{}, types.Fail(types.XMR, fmt.Errorf("%w: %s", ErrNetwork, m.conf.Network))
	}

	var view struct {
		Key string `json:"key"`
	}
	if err := m.call(ctx, "query_key", map[string]string{"key_type": "view_key"}, &view); err != nil {
		return types.Key{}, types.Fail(types.XMR, err)
	}

	closed = true
	if err := m.call(ctx, "close_wallet", nil, nil); err != nil {
		return types.Key{}, types.Fail(types.XMR, err)
	}

	k := types.Key{
		Currency:       types.XMR,
		Address:        addr.Address,
		PrivateViewKey: view.Key,
	}

	return k, k.Validate()
}

// prefixes of the primary addresses of each network
var prefixes = map[string][]string{
	"mainnet":  {"4"},
	"stagenet": {"5"},
	"testnet":  {"9", "A"},
}

// CheckNetwork returns ErrUnknownNetwork if network is not mainnet, stagenet or testnet. Empty means DefaultNetwork.
func CheckNetwork(network string) error {
	if network == "" {
		return nil
	}

	if _, ok := prefixes[network]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	return nil
}

// InNetwork reports whether a primary address has the prefix of network.
func InNetwork(address, network string) bool {
	if address == "" {
		return false
	}

	return util.In(prefixes[network], address[:1])
}

// rpcRequest and rpcResponse are the JSON-RPC 2.0 envelopes of the wallet-rpc API.
type rpcRequest struct {
	Version string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("wallet-rpc error %d: %s", e.Code, e.Message)
}

// call posts a JSON-RPC request to the json_rpc endpoint and decodes the result into res when not nil.
func (m *Monero) call(ctx context.Context, method string, params, res interface{}) error {
	body, err := json.Marshal(rpcRequest{Version: "2.0", ID: "0", Method: method, Params: params})
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(m.conf.URL, "/") + "/json_rpc"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: http status %d", method, resp.StatusCode)
	}

	var r rpcResponse
	if err = json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}

	if r.Error != nil {
		return fmt.Errorf("%s: %w", method, r.Error)
	}

	if res != nil {
		if err = json.Unmarshal(r.Result, res); err != nil {
			return fmt.Errorf("%s: decoding result: %w", method, err)
		}
	}

	return nil
}
