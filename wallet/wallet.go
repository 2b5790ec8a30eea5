// package wallet implements the wallet generation microservice.
//
// This microservice implements a RESTful API for clients to create fresh keypairs for multiple blockchains. Each
// generated wallet is persisted before it is replied, and its secret material is only returned in that reply.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain"
	"github.com/GoldenCloudGuy/DecentraPay/lib/chain/types"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store/db"
)

// ErrPersistence is returned when a generated wallet could not be stored. Its key material is discarded.
var ErrPersistence = errors.New("wallet could not be persisted")

// Wallet contains the data necessary to deliver the service
type Wallet struct {
	dbtype string
	db     store.DB        // db connection
	reg    *chain.Registry // key providers
	mb     msg.MsgBroker   // optional
	log    *zap.Logger
	mu     sync.Mutex    // guards s and ss
	s      *http.Server  // http server
	ss     *http.Server  // https server
	sc     chan struct{} // http server channel used for graceful shutdowns
}

// New returns a pointer to a new Wallet service. mb may be nil.
func New(dbtype string, dbConn store.DB, mb msg.MsgBroker, reg *chain.Registry, log *zap.Logger) *Wallet {
	return &Wallet{
		dbtype: dbtype,
		db:     dbConn,
		reg:    reg,
		mb:     mb,
		log:    log,
		sc:     make(chan struct{}),
	}
}

// Generate creates, persists and returns a new wallet of the requested type:
//
// - an unknown type fails with a chain.UnsupportedError before any key is generated,
//
// - a provider failure returns an error matching types.ErrGeneration and nothing is stored,
//
// - a store failure returns an error matching ErrPersistence and the generated key is discarded.
//
// Once stored, a wallet event is published to the message broker if there is one; publishing errors are only logged.
func (w *Wallet) Generate(ctx context.Context, walletType string) (store.Wallet, error) {
	p, err := w.reg.Resolve(walletType)
	if err != nil {
		failures.WithLabelValues("validate").Inc()

		return store.Wallet{}, err
	}

	k, err := p.Generate(ctx)
	if err == nil {
		err = k.Validate()
	}

	if err == nil && k.Currency != p.Currency() {
		err = fmt.Errorf("provider returned currency %q", k.Currency)
	}

	if err != nil {
		failures.WithLabelValues("generate").Inc()

		if !errors.Is(err, types.ErrGeneration) {
			err = types.Fail(p.Currency(), err)
		}

		return store.Wallet{}, err
	}

	rec := Build(k)

	if err = w.db.AddWallet(ctx, rec); err != nil {
		failures.WithLabelValues("store").Inc()

		return store.Wallet{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	generated.WithLabelValues(rec.Currency).Inc()

	if w.mb != nil {
		if err = w.mb.SendWalletEvent(Event(rec)); err != nil {
			w.log.Warn("error sending wallet event", zap.Object("wallet", rec), zap.Error(err))
		}
	}

	return rec, nil
}

// Get returns the public part of a stored wallet.
func (w *Wallet) Get(ctx context.Context, id string) (store.Wallet, error) {
	rec, err := w.db.GetWallet(ctx, id)
	if err != nil {
		return store.Wallet{}, err
	}

	return rec.Public(), nil
}

// Types returns the wallet types that can be generated.
func (w *Wallet) Types() []string {
	return w.reg.Types()
}

// Stop shuts down the http servers implementing the RESTful API and closes gracefully the connections to message
// broker and database.
func (w *Wallet) Stop() {
	var err error

	w.mu.Lock()
	s, ss := w.s, w.ss
	w.mu.Unlock()
	// shutdown http server
	if s != nil {
		if err = s.Shutdown(context.Background()); err != nil {
			w.log.Error("error in http server shutdown", zap.Error(err))
		}
	}

	if ss != nil {
		if err = ss.Shutdown(context.Background()); err != nil {
			w.log.Error("error in https server shutdown", zap.Error(err))
		}
	}

	close(w.sc) // close server channels to indicate shutdowns have finished
	// close message broker
	if w.mb != nil {
		if err = w.mb.Close(); err != nil {
			w.log.Error("error closing message broker", zap.Error(err))
		}
	}
	// close database
	err = db.Close(w.dbtype, w.db)
	w.log.Info("disconnecting database", zap.String("type", w.dbtype), zap.Error(err))
}
