// Package smtp implements a mail.Sender over SMTP with implicit TLS (port 465).
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GoldenCloudGuy/DecentraPay/lib/mail"
)

// SMTP sends emails authenticating as User.
type SMTP struct {
	Host     string
	Port     string
	User     string
	Pass     string
	FromName string
	// TLS overrides the client TLS configuration, ServerName defaults to Host.
	TLS *tls.Config
}

// Send delivers the email and returns the generated Message-ID.
func (s *SMTP) Send(ctx context.Context, to, subject, text string) (string, error) {
	if s.Host == "" || s.User == "" {
		return "", mail.ErrNotConfigured
	}

	rcpt, err := netmail.ParseAddress(to)
	if err != nil {
		return "", fmt.Errorf("bad recipient: %w", err)
	}

	conf := &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}
	if s.TLS != nil {
		conf = s.TLS.Clone()
		if conf.ServerName == "" {
			conf.ServerName = s.Host
		}
	}

	d := tls.Dialer{NetDialer: &net.Dialer{Timeout: 30 * time.Second}, Config: conf} //nolint:gomnd // 30s

	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(s.Host, s.Port))
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err = client.Auth(smtp.PlainAuth("", s.User, s.Pass, s.Host)); err != nil {
		return "", err
	}

	if err = client.Mail(s.User); err != nil {
		return "", err
	}

	if err = client.Rcpt(rcpt.Address); err != nil {
		return "", err
	}

	w, err := client.Data()
	if err != nil {
		return "", err
	}

	id := messageID(s.User)
	if _, err = w.Write(s.message(id, rcpt.String(), subject, text)); err != nil {
		return "", err
	}

	if err = w.Close(); err != nil {
		return "", err
	}

	return id, client.Quit()
}

// message builds the headers and body of a plain text email.
func (s *SMTP) message(id, to, subject, text string) []byte {
	from := netmail.Address{Name: s.FromName, Address: s.User}

	var b strings.Builder

	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Message-ID: " + id + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\n", "\r\n"))

	return []byte(b.String())
}

// messageID returns a unique <uuid@domain> id, the domain taken from the sender address.
func messageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}

	return "<" + uuid.NewString() + "@" + domain + ">"
}
