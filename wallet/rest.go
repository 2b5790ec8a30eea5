package wallet

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// timeouts in seconds; writes wait for the slowest provider (monero-wallet-rpc)
const (
	readTimeout  = 15
	writeTimeout = 60
)

// Router returns the RESTful API of the wallet service.
func (w *Wallet) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", w.homeHandler)
	r.HandleFunc("/generate-wallet/{type}", w.generateHandler).Methods("GET") // generate and store a new wallet
	r.HandleFunc("/wallets", w.typesHandler).Methods("GET")                   // get wallet types available
	r.HandleFunc("/wallets/{id}", w.getHandler).Methods("GET")                // get the public part of a wallet

	return r
}

// Init sets up and starts the http/https server to service the RESTful API for a wallet service. If sslPort, ssCert
// and sslKey are informed, it will start an https (TLS) server on the specified endpoint.
func (w *Wallet) Init(endpoint, port, sslPort, sslCert, sslKey string) string {
	errc := make(chan error, 1)    // http server
	errTLSc := make(chan error, 1) // https server

	r := w.Router()

	w.mu.Lock()
	// start http server
	if port != "" {
		w.s = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + port,
			WriteTimeout: writeTimeout * time.Second,
			ReadTimeout:  readTimeout * time.Second,
		}

		go func(s *http.Server) {
			errc <- s.ListenAndServe()
		}(w.s)

		w.log.Info("listening to API http requests", zap.String("endpoint", endpoint), zap.String("port", port))
	}
	// start https server
	if sslPort != "" && sslCert != "" && sslKey != "" {
		w.ss = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + sslPort,
			WriteTimeout: writeTimeout * time.Second,
			ReadTimeout:  readTimeout * time.Second,
		}

		go func(s *http.Server) {
			errTLSc <- s.ListenAndServeTLS(sslCert, sslKey)
		}(w.ss)

		w.log.Info("listening to API https requests", zap.String("endpoint", endpoint), zap.String("port", sslPort))
	}

	s, ss := w.s, w.ss
	w.mu.Unlock()
	// wait for servers to be shutdown
	<-w.sc

	var err, errTLS error
	if s != nil {
		err = <-errc
	}

	if ss != nil {
		errTLS = <-errTLSc
	}

	return fmt.Sprintf("shutdown http server:%v, https server:%v", err, errTLS)
}
