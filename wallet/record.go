package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

// Build assembles the record of a generated key with a random (v4) uuid and the current time. The path is
// "<currency>/<id>".
func Build(k types.Key) store.Wallet {
	return build(k, uuid.NewString(), time.Now().UTC())
}

func build(k types.Key, id string, now time.Time) store.Wallet {
	return store.Wallet{
		ID:             id,
		Currency:       k.Currency,
		Address:        k.Address,
		PrivateKey:     k.PrivateKey,
		Mnemonic:       k.Mnemonic,
		PrivateViewKey: k.PrivateViewKey,
		Path:           k.Currency + "/" + id,
		CreatedAt:      now,
	}
}

// Event returns the broker event of a stored wallet.
func Event(w store.Wallet) msg.WalletEvent {
	return msg.WalletEvent{ID: w.ID, Currency: w.Currency, Address: w.Address, Path: w.Path, CreatedAt: w.CreatedAt}
}
