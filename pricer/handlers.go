package pricer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Errors returned to client requests.
var (
	ErrAddress = errors.New("Invalid or missing Ethereum address")
	ErrWallet  = errors.New("Error fetching wallet details")
)

// Welcome is replied on the root path.
const Welcome = "Welcome to the DecentraPay API. Use /update-prices to update crypto prices, and " +
	"/update-exchange-rates to update USD exchange rates. Use /check-wallet to fetch wallet details."

// Response defines the data structure returned to the client on updates.
type Response struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CheckReq is the body of a check-wallet request.
type CheckReq struct {
	WalletAddress string `json:"walletAddress"`
}

// Amount is a balance in a currency.
type Amount struct {
	Amount string `json:"amount"`
}

// CheckRes is the reply to a check-wallet request.
type CheckRes struct {
	Address string            `json:"address"`
	Balance map[string]Amount `json:"balance"`
}

func reply(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(res)
}

func (p *Pricer) homeHandler(rw http.ResponseWriter, r *http.Request) {
	p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI))
	rw.Header().Set("Content-Type", "text/plain;charset=utf8")
	_, _ = rw.Write([]byte(Welcome))
}

// pricesHandler updates the crypto prices and replies them.
func (p *Pricer) pricesHandler(rw http.ResponseWriter, r *http.Request) {
	prices, err := p.UpdatePrices(r.Context())
	if err != nil {
		p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI), zap.Error(err))
		reply(rw, http.StatusInternalServerError, Response{Error: err.Error()})

		return
	}

	p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
		zap.Any("prices", prices))
	reply(rw, http.StatusOK, Response{Message: "Crypto prices updated successfully", Data: prices})
}

// ratesHandler updates the exchange rates and replies them.
func (p *Pricer) ratesHandler(rw http.ResponseWriter, r *http.Request) {
	rates, err := p.UpdateRates(r.Context())
	if err != nil {
		p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI), zap.Error(err))
		reply(rw, http.StatusInternalServerError, Response{Error: err.Error()})

		return
	}

	p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI), zap.Any("rates", rates))
	reply(rw, http.StatusOK, Response{Message: "Exchange rates updated successfully", Data: rates})
}

// checkHandler replies the ether balance of the address in the body.
func (p *Pricer) checkHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	var req CheckReq

	defer func() {
		p.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
			zap.String("address", req.WalletAddress), zap.Error(err))
	}()

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil || !common.IsHexAddress(req.WalletAddress) {
		if err == nil {
			err = ErrAddress
		}

		reply(rw, http.StatusBadRequest, Response{Error: ErrAddress.Error()})

		return
	}

	bals, err := p.Balance(r.Context(), req.WalletAddress)
	if err != nil {
		reply(rw, http.StatusInternalServerError, Response{Error: ErrWallet.Error()})

		return
	}

	res := CheckRes{Address: req.WalletAddress, Balance: make(map[string]Amount, len(bals))}
	for sym, bal := range bals {
		res.Balance[sym] = Amount{Amount: bal.String()}
	}

	reply(rw, http.StatusOK, res)
}
