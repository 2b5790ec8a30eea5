package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

// Errors returned to client requests. Causes are only logged.
var (
	ErrFailed   = errors.New("Failed to generate wallet")
	ErrNotFound = errors.New("Wallet not found")
	ErrRead     = errors.New("Failed to read wallet")
)

// Welcome is replied on the root path.
const Welcome = "Welcome to the DecentraPay wallet API. Use /generate-wallet/{type} to create a wallet and /wallets " +
	"to list the wallet types available."

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Message string        `json:"message,omitempty"`
	Wallet  *store.Wallet `json:"wallet,omitempty"`
	Wallets []string      `json:"wallets,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// reply writes res as JSON with the status code.
func reply(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(res)
}

// homeHandler just replies a welcome message to the client.
func (w *Wallet) homeHandler(rw http.ResponseWriter, r *http.Request) {
	w.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI))
	reply(rw, http.StatusOK, Response{Message: Welcome})
}

// typesHandler replies the wallet types available.
func (w *Wallet) typesHandler(rw http.ResponseWriter, r *http.Request) {
	w.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI))
	reply(rw, http.StatusOK, Response{Wallets: w.Types()})
}

// generateHandler generates a wallet of the type in the uri and replies it, secret material included. Unsupported
// types are replied with 400 and any other failure with 500.
func (w *Wallet) generateHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	var rec store.Wallet

	walletType := strings.ToLower(mux.Vars(r)["type"])

	defer func() {
		// reply to requester accordingly
		var res Response

		status := http.StatusOK

		switch {
		case err == nil:
			res.Message = walletType + " wallet generated successfully"
			res.Wallet = &rec

			w.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
				zap.Int("status", status), zap.Object("wallet", rec))
		case errors.Is(err, chain.ErrUnsupported):
			status = http.StatusBadRequest
			res.Error = err.Error()

			w.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
				zap.Int("status", status), zap.Error(err))
		default:
			status = http.StatusInternalServerError
			res.Error = ErrFailed.Error()

			w.log.Error("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
				zap.Int("status", status), zap.Error(err))
		}

		reply(rw, status, res)
	}()

	// a started generation runs to completion even if the client goes away
	rec, err = w.Generate(context.WithoutCancel(r.Context()), walletType)
}

// getHandler replies the public part of the wallet with the id in the uri.
func (w *Wallet) getHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	var rec store.Wallet

	defer func() {
		var res Response

		status := http.StatusOK

		switch {
		case err == nil:
			res.Wallet = &rec
		case errors.Is(err, store.ErrWalletNotFound):
			status = http.StatusNotFound
			res.Error = ErrNotFound.Error()
		default:
			status = http.StatusInternalServerError
			res.Error = ErrRead.Error()
		}

		w.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
			zap.Int("status", status), zap.Error(err))
		reply(rw, status, res)
	}()

	rec, err = w.Get(r.Context(), mux.Vars(r)["id"])
}
