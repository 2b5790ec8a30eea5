package wallet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decentrapay",
		Name:      "wallets_generated_total",
		Help:      "Wallets generated and stored, by currency.",
	}, []string{"currency"})

	// stage is one of validate, generate or store
	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decentrapay",
		Name:      "wallet_failures_total",
		Help:      "Failed wallet requests, by stage.",
	}, []string{"stage"})
)
