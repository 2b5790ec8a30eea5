package store

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Wallet is the persisted wallet record. Secret fields are only set for the chains that use them.
type Wallet struct {
	ID             string    `json:"id" bson:"_id"`
	Currency       string    `json:"currency" bson:"currency"`
	Address        string    `json:"address" bson:"address"`
	PrivateKey     string    `json:"privateKey,omitempty" bson:"privateKey,omitempty"`
	Mnemonic       string    `json:"mnemonic,omitempty" bson:"mnemonic,omitempty"`
	PrivateViewKey string    `json:"privateViewKey,omitempty" bson:"privateViewKey,omitempty"`
	Path           string    `json:"path" bson:"path"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Public returns a copy of the wallet without secret material.
func (w Wallet) Public() Wallet {
	w.PrivateKey, w.Mnemonic, w.PrivateViewKey = "", "", ""

	return w
}

// MarshalLogObject logs the public fields only.
func (w Wallet) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", w.ID)
	enc.AddString("currency", w.Currency)
	enc.AddString("address", w.Address)
	enc.AddString("path", w.Path)
	enc.AddTime("createdAt", w.CreatedAt)

	return nil
}

// Price is a crypto price snapshot row.
type Price struct {
	Symbol    string    `json:"symbol" bson:"symbol"`
	Price     string    `json:"price" bson:"price"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Rate is a fiat exchange rate snapshot row, relative to USD.
type Rate struct {
	Currency  string    `json:"currency" bson:"currency"`
	Rate      float64   `json:"rate" bson:"rate"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
