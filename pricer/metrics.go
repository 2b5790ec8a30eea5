package pricer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var updates = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "decentrapay",
	Name:      "market_updates_total",
	Help:      "Price and exchange rate updates, by kind and result.",
}, []string{"kind", "result"})
