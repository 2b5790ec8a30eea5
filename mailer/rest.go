package mailer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// timeout in seconds
const timeout = 60

// Router returns the RESTful API of the mailer service.
func (m *Mailer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/send-email", m.sendHandler).Methods("POST")

	return r
}

// Init sets up and starts the http/https server to service the RESTful API for the mailer service and blocks until
// Stop is called.
func (m *Mailer) Init(endpoint, port, sslPort, sslCert, sslKey string) string {
	errc := make(chan error, 1)    // http server
	errTLSc := make(chan error, 1) // https server

	r := m.Router()

	m.mu.Lock()
	if port != "" {
		m.s = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + port,
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func(s *http.Server) {
			errc <- s.ListenAndServe()
		}(m.s)

		m.log.Info("listening to API http requests", zap.String("endpoint", endpoint), zap.String("port", port))
	}
	if sslPort != "" && sslCert != "" && sslKey != "" {
		m.ss = &http.Server{
			Handler:      r,
			Addr:         endpoint + ":" + sslPort,
			WriteTimeout: timeout * time.Second,
			ReadTimeout:  timeout * time.Second,
		}

		go func(s *http.Server) {
			errTLSc <- s.ListenAndServeTLS(sslCert, sslKey)
		}(m.ss)

		m.log.Info("listening to API https requests", zap.String("endpoint", endpoint), zap.String("port", sslPort))
	}

	s, ss := m.s, m.ss
	m.mu.Unlock()
	<-m.sc

	var err, errTLS error
	if s != nil {
		err = <-errc
	}

	if ss != nil {
		errTLS = <-errTLSc
	}

	return fmt.Sprintf("shutdown http server:%v, https server:%v", err, errTLS)
}
