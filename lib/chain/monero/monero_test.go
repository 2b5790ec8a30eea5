package monero

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
)

const (
	mockAddress = "44AFFq5kSiGBoZ4NMDwYtN18obc8AemS33DBLWs3H7otXft3XjrpDtQGv7SqSsaBYBb98uNbr2VBBEt7f2wfn3RVGQBEP3A"
	mockViewKey = "49774391fa5e8d249fc2c5b45dadef13534bf2483dede880dac88f061e809100"
)

// mockWallet emulates monero-wallet-rpc: it records the method calls and fails the method named in fail.
type mockWallet struct {
	mu      sync.Mutex
	calls   []string
	files   []string
	fail    string
	address string
}

func (m *mockWallet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}

	if r.URL.Path != "/json_rpc" {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	_ = json.NewDecoder(r.Body).Decode(&req)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req.Method)

	res := map[string]interface{}{"jsonrpc": "2.0", "id": "0"}

	switch {
	case req.Method == m.fail:
		res["error"] = map[string]interface{}{"code": -1, "message": "mock failure"}
	case req.Method == "create_wallet":
		var p map[string]string
		_ = json.Unmarshal(req.Params, &p)
		m.files = append(m.files, p["filename"])
		res["result"] = map[string]interface{}{}
	case req.Method == "get_address":
		res["result"] = map[string]interface{}{"address": m.address}
	case req.Method == "query_key":
		res["result"] = map[string]interface{}{"key": mockViewKey}
	default:
		res["result"] = map[string]interface{}{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func TestGenerate(t *testing.T) {
	mock := &mockWallet{address: mockAddress}
	srv := httptest.NewServer(mock)
	defer srv.Close()

	m := New(Config{URL: srv.URL}, srv.Client())

	k, err := m.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error:%v", err)
	}

	if k.Currency != types.XMR || k.Address != mockAddress || k.PrivateViewKey != mockViewKey || k.PrivateKey != "" {
		t.Errorf("unexpected key %+v", k)
	}

	want := []string{"create_wallet", "get_address", "query_key", "close_wallet"}
	if strings.Join(mock.calls, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected rpc sequence %v", mock.calls)
	}

	// every wallet gets its own file
	if _, err = m.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(mock.files) != 2 || mock.files[0] == mock.files[1] || !strings.HasPrefix(mock.files[0], DefaultPrefix) {
		t.Errorf("unexpected wallet files %v", mock.files)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		fail    string
		network string
		address string
		url     bool
		errExp  error
	}{
		{"noEndpoint", "", "", mockAddress, false, ErrNoEndpoint},
		{"createFails", "create_wallet", "", mockAddress, true, types.ErrGeneration},
		{"viewKeyFails", "query_key", "", mockAddress, true, types.ErrGeneration},
		{"wrongNetwork", "", "stagenet", mockAddress, true, ErrNetwork},
		{"noAddress", "", "", "", true, ErrNetwork},
	}

	for _, c := range cases {
		mock := &mockWallet{fail: c.fail, address: c.address}
		srv := httptest.NewServer(mock)

		conf := Config{Network: c.network}
		if c.url {
			conf.URL = srv.URL
		}

		k, err := New(conf, srv.Client()).Generate(context.Background())
		if !errors.Is(err, c.errExp) || !errors.Is(err, types.ErrGeneration) {
			t.Errorf("[%s] unexpected error:%v", c.name, err)
		}

		if k.Address != "" || k.PrivateViewKey != "" {
			t.Errorf("[%s] partial key returned: %+v", c.name, k)
		}

		srv.Close()
	}
}

// TestCloseOnFailure checks a created wallet is closed whatever step fails afterwards.
func TestCloseOnFailure(t *testing.T) {
	cases := []struct {
		fail    string
		address string
		closed  bool
	}{
		{"create_wallet", mockAddress, false},
		{"get_address", mockAddress, true},
		{"query_key", mockAddress, true},
		{"", "5abc", true}, // wrong network
		{"close_wallet", mockAddress, true},
	}

	for _, c := range cases {
		mock := &mockWallet{fail: c.fail, address: c.address}
		srv := httptest.NewServer(mock)

		if _, err := New(Config{URL: srv.URL}, srv.Client()).Generate(context.Background()); err == nil {
			t.Errorf("[%s] expected error", c.fail)
		}

		closes := 0

		for _, m := range mock.calls {
			if m == "close_wallet" {
				closes++
			}
		}

		if (closes == 1) != c.closed {
			t.Errorf("[%s] close_wallet called %d times in %v", c.fail, closes, mock.calls)
		}

		srv.Close()
	}
}

func TestCheckNetwork(t *testing.T) {
	for _, n := range []string{"", "mainnet", "stagenet", "testnet"} {
		if err := CheckNetwork(n); err != nil {
			t.Errorf("[%s] unexpected error:%v", n, err)
		}
	}

	for _, n := range []string{"Mainnet", "TESTNET", "regtest"} {
		if err := CheckNetwork(n); !errors.Is(err, ErrUnknownNetwork) {
			t.Errorf("[%s] expected ErrUnknownNetwork, got %v", n, err)
		}
	}
}

func TestInNetwork(t *testing.T) {
	if !InNetwork(mockAddress, "mainnet") || InNetwork(mockAddress, "testnet") || InNetwork("5abc", "mainnet") ||
		!InNetwork("5abc", "stagenet") || !InNetwork("A1bc", "testnet") || InNetwork(mockAddress, "dogenet") {
		t.Error("unexpected network match")
	}
}
