package pricer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// timeout in seconds
const timeout = 30

// Router returns the RESTful API of the pricer service.
func (p *Pricer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", p.homeHandler)
	r.HandleFunc("/update-prices", p.pricesHandler).Methods("GET")        // fetch and store crypto prices
	r.HandleFunc("/update-exchange-rates", p.ratesHandler).Methods("GET") // fetch and store exchange rates
	r.HandleFunc("/check-wallet", p.checkHandler).Methods("POST")         // get the ether balance of an address

	return r
}

// Init sets up and starts the http/https server to service the RESTful API for the pricer service and blocks until
// Stop is called.
func (p *Pricer) Init(endpoint, port, sslPort, sslCert, sslKey string) string {
	errc := make(chan error, 1)    // http server
	errTLSc := make(chan error, 1) // https server

	r := p.Router()

	p.mu.Lock()
	if port != "" {
		p.s = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + port,
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func(s *http.Server) {
			errc <- s.ListenAndServe()
		}(p.s)

		p.log.Info("listening to API http requests", zap.String("endpoint", endpoint), zap.String("port", port))
	}
	if sslPort != "" && sslCert != "" && sslKey != "" {
		p.ss = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + sslPort,
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func(s *http.Server) {
			errTLSc <- s.ListenAndServeTLS(sslCert, sslKey)
		}(p.ss)

		p.log.Info("listening to API https requests", zap.String("endpoint", endpoint), zap.String("port", sslPort))
	}

	s, ss := p.s, p.ss
	p.mu.Unlock()
	<-p.sc

	var err, errTLS error
	if s != nil {
		err = <-errc
	}

	if ss != nil {
		errTLS = <-errTLSc
	}

	return fmt.Sprintf("shutdown http server:%v, https server:%v", err, errTLS)
}
