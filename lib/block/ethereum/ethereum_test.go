package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	account = "0x357dd3856d856197c1a000bbAb4aBCB97Dfc92c4"
	usdt    = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

// node mocks an ethereum JSON-RPC node: eth_getBalance answers balance, eth_call (ERC20 balanceOf) answers tokBal
// and any other method a plain quantity.
func node(t *testing.T, balance, tokBal string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request:%v", err)
		}

		if len(req.ID) == 0 {
			req.ID = json.RawMessage("1")
		}

		result := "0x1"

		switch req.Method {
		case "eth_getBalance":
			result = balance
		case "eth_call":
			result = tokBal
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + result + `"}`))
	}))
}

func TestBalance(t *testing.T) {
	// 1 ether and 25 USDT (6 decimals)
	srv := node(t, "0xde0b6b3a7640000", "0x00000000000000000000000000000000000000000000000000000000017d7840")
	defer srv.Close()

	e, err := Init(srv.URL, "")
	if err != nil {
		t.Fatalf("Init err:%v", err)
	}
	defer e.Close()

	bal, _, err := e.Balance(context.Background(), account, "")
	if err != nil {
		t.Fatalf("Balance err:%v", err)
	}

	if bal.String() != "1000000000000000000" {
		t.Errorf("unexpected balance %s", bal)
	}

	bal, tokBal, err := e.Balance(context.Background(), account, usdt)
	if err != nil {
		t.Fatalf("Balance with token err:%v", err)
	}

	if bal.String() != "1000000000000000000" || tokBal.String() != "25000000" {
		t.Errorf("unexpected balances %s %s", bal, tokBal)
	}

	cases := []struct {
		address, token string
		errExp         error
	}{
		{"0x1234", "", ErrBadAddress},
		{account, "0xusdt", ErrBadToken},
	}

	for _, c := range cases {
		if _, _, err = e.Balance(context.Background(), c.address, c.token); !errors.Is(err, c.errExp) {
			t.Errorf("[%s %s] expected %v, got %v", c.address, c.token, c.errExp, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err = e.Balance(ctx, account, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	// a node that is down fails either on connection or on the first request
	e, err := Init(srv.URL, "")
	if err != nil {
		return
	}
	defer e.Close()

	if _, _, err = e.Balance(context.Background(), account, ""); err == nil {
		t.Error("expected node error")
	}
}
