// Package mail defines the interface of the mail transports used by the mailer service.
package mail

import (
	"context"
	"errors"
)

// Sender delivers a plain text email and returns its message id.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) (string, error)
}

var ErrNotConfigured = errors.New("mail transport not configured")
