// Package msg defines the interface for different message brokers.
package msg

import (
	"sync"
	"time"
)

// WalletEvent is published by the wallet service once a wallet record has been persisted. It never carries secret
// material.
type WalletEvent struct {
	ID        string    `json:"id"`
	Currency  string    `json:"currency"`
	Address   string    `json:"address"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

// MailReq is a request for the mailer service to send an email.
type MailReq struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Valid returns true if all fields are set.
func (m MailReq) Valid() bool {
	return m.To != "" && m.Subject != "" && m.Text != ""
}

type MsgBroker interface {
	Setup(interface{}) error
	Close() error

	// methods for wallet service
	SendWalletEvent(e WalletEvent) error

	// methods for mailer service and its clients
	SendMail(m MailReq) error
	GetMails(mut *sync.Mutex) (<-chan MailReq, <-chan error, error)
}
