// +build integration

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

var uri string = "mongodb://localhost:27017"

func TestWallet(t *testing.T) {
	m, err := New(uri, "DecentraPayTest")
	if err != nil {
		t.Fatalf("err:%v", err)
	}
	defer m.CloseMongo()

	ctx := context.Background()
	w := store.Wallet{
		ID:         "0b6a0c1e-2f61-4f7e-a8a4-3b0b5f8f4b11",
		Currency:   "ETH",
		Address:    "0x357dd3856d856197c1a000bbAb4aBCB97Dfc92c4",
		PrivateKey: "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		Path:       "ETH/0b6a0c1e-2f61-4f7e-a8a4-3b0b5f8f4b11",
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	if err = m.AddWallet(ctx, w); err != nil {
		t.Fatalf("AddWallet err:%v", err)
	}
	defer m.DeleteWallet(ctx, w.ID)

	if err = m.AddWallet(ctx, w); !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("expected duplicate error, got %v", err)
	}

	got, err := m.GetWallet(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetWallet err:%v", err)
	}

	if got.Address != w.Address || got.PrivateKey != w.PrivateKey || got.Currency != w.Currency {
		t.Errorf("round trip mismatch %+v", got)
	}

	if _, err = m.GetWallet(ctx, "missing"); !errors.Is(err, store.ErrWalletNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	m, err := New(uri, "DecentraPayTest")
	if err != nil {
		t.Fatalf("err:%v", err)
	}
	defer m.CloseMongo()

	now := time.Now()
	if err = m.AddPrices(context.Background(), []store.Price{{Symbol: "BTC", Price: "$1.00", Timestamp: now}}); err != nil {
		t.Errorf("AddPrices err:%v", err)
	}

	if err = m.AddRates(context.Background(), []store.Rate{{Currency: "EUR", Rate: 0.92, Timestamp: now}}); err != nil {
		t.Errorf("AddRates err:%v", err)
	}
}
