package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
)

// sender records the emails sent and fails for recipients at fail.example.
type sender struct {
	mu   sync.Mutex
	sent []msg.MailReq
}

func (s *sender) Send(_ context.Context, to, subject, text string) (string, error) {
	if strings.HasSuffix(to, "@fail.example") {
		return "", errors.New("535 authentication failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, msg.MailReq{To: to, Subject: subject, Text: text})

	return "<id@decentrapay.io>", nil
}

func (s *sender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sent)
}

// broker feeds mail requests through the mutex protocol of the message brokers.
type broker struct {
	reqs  chan msg.MailReq
	errs  chan error
	acked chan msg.MailReq
}

func newBroker() *broker {
	return &broker{reqs: make(chan msg.MailReq), errs: make(chan error), acked: make(chan msg.MailReq, 10)}
}

func (b *broker) Setup(interface{}) error               { return nil }
func (b *broker) SendWalletEvent(msg.WalletEvent) error { return nil }
func (b *broker) SendMail(msg.MailReq) error            { return nil }

func (b *broker) Close() error {
	close(b.reqs)
	close(b.errs)

	return nil
}

func (b *broker) GetMails(mut *sync.Mutex) (<-chan msg.MailReq, <-chan error, error) {
	out := make(chan msg.MailReq)

	go func() {
		defer close(out)

		for r := range b.reqs {
			mut.Lock()
			out <- r
			mut.Lock() // released by the consumer
			b.acked <- r
			mut.Unlock()
		}
	}()

	return out, b.errs, nil
}

func TestSendEmail(t *testing.T) {
	s := &sender{}
	m := New(s, nil, zap.NewNop())

	srv := httptest.NewServer(m.Router())
	defer srv.Close()

	cases := []struct {
		name, body string
		status     int
		msgExp     string
		idExp      string
	}{
		{"ok", `{"to":"a@example.com","subject":"Hi","text":"Hello"}`, http.StatusOK, "Email sent successfully!", "<id@decentrapay.io>"},
		{"no_to", `{"subject":"Hi","text":"Hello"}`, http.StatusBadRequest, "Missing 'to', 'subject', or 'text' in request body", ""},
		{"no_text", `{"to":"a@example.com","subject":"Hi"}`, http.StatusBadRequest, "Missing 'to', 'subject', or 'text' in request body", ""},
		{"bad_json", `{"to":`, http.StatusBadRequest, "Missing 'to', 'subject', or 'text' in request body", ""},
		{"smtp_error", `{"to":"a@fail.example","subject":"Hi","text":"Hello"}`, http.StatusInternalServerError, "Failed to send email", ""},
	}

	for _, c := range cases {
		res, err := srv.Client().Post(srv.URL+"/send-email", "application/json", strings.NewReader(c.body))
		if err != nil {
			t.Fatalf("[%s] err:%v", c.name, err)
		}

		var r Response

		err = json.NewDecoder(res.Body).Decode(&r)
		res.Body.Close()

		if err != nil || res.StatusCode != c.status || r.Message != c.msgExp || r.MessageID != c.idExp {
			t.Errorf("[%s] unexpected reply %d %+v err:%v", c.name, res.StatusCode, r, err)
		}

		if c.name == "smtp_error" && r.Error != "535 authentication failed" {
			t.Errorf("[%s] unexpected error %q", c.name, r.Error)
		}
	}

	if s.count() != 1 {
		t.Errorf("expected 1 email sent, got %d", s.count())
	}
}

func TestManageRequests(t *testing.T) {
	s := &sender{}
	b := newBroker()
	m := New(s, b, zap.NewNop())

	if err := m.ManageRequests(); err != nil {
		t.Fatalf("ManageRequests err:%v", err)
	}

	reqs := []msg.MailReq{
		{To: "a@example.com", Subject: "Invoice", Text: "Paid"},
		{To: "b@fail.example", Subject: "Invoice", Text: "Paid"},
		{To: "c@example.com", Subject: "", Text: "no subject"},
	}

	for _, r := range reqs {
		b.reqs <- r
	}

	// all requests are acknowledged, sent or not
	for i := range reqs {
		select {
		case got := <-b.acked:
			if got != reqs[i] {
				t.Errorf("acked %+v, want %+v", got, reqs[i])
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("request %d was not acknowledged", i)
		}
	}

	m.Stop()

	if s.count() != 1 {
		t.Errorf("expected 1 email sent, got %d", s.count())
	}
}

// TestInitStop starts the API on a random port and checks Stop ends Init with the servers' errors.
func TestInitStop(t *testing.T) {
	m := New(&sender{}, nil, zap.NewNop())

	done := make(chan string, 1)

	go func() {
		done <- m.Init("127.0.0.1", "0", "", "", "")
	}()

	for started := false; !started; time.Sleep(10 * time.Millisecond) {
		m.mu.Lock()
		started = m.s != nil
		m.mu.Unlock()
	}

	m.Stop()

	select {
	case res := <-done:
		if res != "shutdown http server:"+http.ErrServerClosed.Error()+", https server:<nil>" {
			t.Errorf("unexpected result %q", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Init did not return after Stop")
	}
}
