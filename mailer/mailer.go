// Package mailer implements the email relay microservice. Emails are requested through the RESTful API or through
// the message broker and delivered by the configured mail transport.
package mailer

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/mail"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
)

// sendTimeout bounds the delivery of emails consumed from the broker.
const sendTimeout = time.Minute

// ErrMissing is returned for requests without recipient, subject or text.
var ErrMissing = errors.New("Missing 'to', 'subject', or 'text' in request body")

var sent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "decentrapay",
	Name:      "emails_total",
	Help:      "Emails requested, by source and result.",
}, []string{"source", "result"})

// Mailer implements the mailer service.
type Mailer struct {
	sender mail.Sender
	mb     msg.MsgBroker // optional
	log    *zap.Logger
	wg     sync.WaitGroup // broker consumers
	mu     sync.Mutex     // guards s and ss
	s      *http.Server
	ss     *http.Server
	sc     chan struct{}
}

// New returns a new mailer service. mb may be nil.
func New(sender mail.Sender, mb msg.MsgBroker, log *zap.Logger) *Mailer {
	return &Mailer{sender: sender, mb: mb, log: log, sc: make(chan struct{})}
}

// Send validates and delivers an email and returns its message id.
func (m *Mailer) Send(ctx context.Context, req msg.MailReq, source string) (string, error) {
	if !req.Valid() {
		sent.WithLabelValues(source, "invalid").Inc()

		return "", ErrMissing
	}

	id, err := m.sender.Send(ctx, req.To, req.Subject, req.Text)
	if err != nil {
		sent.WithLabelValues(source, "error").Inc()

		return "", err
	}

	sent.WithLabelValues(source, "ok").Inc()

	return id, nil
}

// ManageRequests starts go routines consuming the mail requests queued in the message broker, one for requests and
// one for errors. Each request is acknowledged once it has been dealt with, whether it could be sent or not.
func (m *Mailer) ManageRequests() error {
	if m.mb == nil {
		return nil
	}

	var mut *sync.Mutex = new(sync.Mutex)

	reqCh, errCh, err := m.mb.GetMails(mut)
	if err != nil {
		return err
	}

	m.wg.Add(2) //nolint:gomnd // two readers

	go func() {
		defer m.wg.Done()

		m.log.Info("start listening to mail request channel")

		for req := range reqCh {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)

			id, err := m.Send(ctx, req, "broker")
			if err != nil {
				m.log.Error("error sending email", zap.String("to", req.To), zap.Error(err))
			} else {
				m.log.Info("email sent", zap.String("to", req.To), zap.String("messageId", id))
			}

			cancel()
			mut.Unlock()
		}

		m.log.Info("stop listening to mail request channel")
	}()

	go func() {
		defer m.wg.Done()

		for e := range errCh {
			m.log.Warn("received error from mail request channel", zap.Error(e))
		}
	}()

	return nil
}

// Stop shuts down the http servers and closes the message broker, which ends the broker consumers.
func (m *Mailer) Stop() {
	m.mu.Lock()
	s, ss := m.s, m.ss
	m.mu.Unlock()

	if s != nil {
		if err := s.Shutdown(context.Background()); err != nil {
			m.log.Error("error in http server shutdown", zap.Error(err))
		}
	}

	if ss != nil {
		if err := ss.Shutdown(context.Background()); err != nil {
			m.log.Error("error in https server shutdown", zap.Error(err))
		}
	}

	close(m.sc)

	if m.mb != nil {
		if err := m.mb.Close(); err != nil {
			m.log.Error("error closing message broker", zap.Error(err))
		}
	}

	m.wg.Wait()
}
