// Package amqp implements the message broker interface for AMQP compliant brokers (ie RabbitMQ)
package amqp

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
)

// Exchange and queue names.
const (
	WalletEvents = "we"
	MailReqs     = "mr"
	MailQueue    = "mrmailer"
)

// Amqp implements a connection to a broker and a channel for reuse.
type Amqp struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
	log  *zap.Logger
}

// New instantiates a new amqp broker.
func New(uri string, log *zap.Logger) (*Amqp, error) {
	r := Amqp{log: log}

	var err error
	if r.conn, err = amqp.Dial(uri); err != nil {
		return nil, err
	}

	log.Info("connected to message broker")

	return &r, nil
}

// Setup obtains an amqp channel and declares the message broker exchanges:
//
// - we ("wallet events"): the wallet service publishes the public part of new wallets to this exchange
//
// - mr ("mail requests"): any service publishes emails to be sent by the mailer to this exchange
func (r *Amqp) Setup(x interface{}) error {
	// obtain a one-use channel
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()

	if err = channel.ExchangeDeclare(WalletEvents, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	return channel.ExchangeDeclare(MailReqs, "topic", true, false, false, false, nil)
}

// Close terminates gracefully the connection to the AMQP message broker
func (r *Amqp) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			r.log.Warn("error closing amqp.Channel", zap.Error(err))
		}

		r.ch = nil
	}

	return r.conn.Close()
}

// channel returns the shared channel, opening it if not present.
func (r *Amqp) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch == nil {
		var err error
		if r.ch, err = r.conn.Channel(); err != nil {
			return nil, err
		}
	}

	return r.ch, nil
}

// publish marshals v and publishes it to exchange with the routing key.
func (r *Amqp) publish(exchange, key string, v interface{}) error {
	jsonDoc, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ch, err := r.channel()
	if err != nil {
		return err
	}

	return ch.Publish(exchange, key, false, false, amqp.Publishing{
		Body:        jsonDoc,
		ContentType: "application/json",
	})
}

// SendWalletEvent publishes a wallet event to the "we" exchange with routing key <currency>.<id>.
func (r *Amqp) SendWalletEvent(e msg.WalletEvent) error {
	return r.publish(WalletEvents, routingKey(e.Currency)+"."+e.ID, e)
}

// SendMail publishes a mail request to the "mr" exchange.
func (r *Amqp) SendMail(m msg.MailReq) error {
	return r.publish(MailReqs, "mail."+routingKey(m.To), m)
}

// GetMails consumes requests from the "mr" exchange pushing them to the returned channel. The Mutex pointer is
// provided to ensure the consumed message has been fully dealt with by the management function, so the message
// consumed is only acknowledged when the mutex is unlocked.
func (r *Amqp) GetMails(mut *sync.Mutex) (<-chan msg.MailReq, <-chan error, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, nil, err
	}

	if _, err = ch.QueueDeclare(MailQueue, true, false, false, false, nil); err != nil {
		return nil, nil, err
	}

	if err = ch.QueueBind(MailQueue, "mail.#", MailReqs, false, nil); err != nil {
		return nil, nil, err
	}

	msgs, err := ch.Consume(MailQueue, "mailer", false, false, false, false, nil)
	if err != nil {
		return nil, nil, err
	}

	reqs := make(chan msg.MailReq)
	errs := make(chan error)

	go func() {
		defer close(errs)
		defer close(reqs)

		for m := range msgs {
			var req msg.MailReq
			if err := json.Unmarshal(m.Body, &req); err != nil {
				_ = m.Nack(false, false) // malformed, drop it
				errs <- err

				continue
			}

			mut.Lock()
			reqs <- req
			mut.Lock() // wait for the mailer to finish processing the request
			_ = m.Ack(false)
			mut.Unlock()
		}
	}()

	return reqs, errs, nil
}

// routingKey strips the characters AMQP topic routing uses as separators.
func routingKey(s string) string {
	return strings.NewReplacer(".", "_", " ", "_", "#", "_", "*", "_").Replace(s)
}
