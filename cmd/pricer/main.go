// Package main: pricer service.
//
// The pricer stores crypto price and exchange rate snapshots on request (/update-prices, /update-exchange-rates) and,
// if market.pollinterval is set, every pollinterval seconds. /check-wallet requires an ethereum node (ethnode or
// INFURA_API_KEY).
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/block"
	"github.com/GoldenCloudGuy/DecentraPay/lib/config"
	"github.com/GoldenCloudGuy/DecentraPay/lib/logging"
	"github.com/GoldenCloudGuy/DecentraPay/lib/market"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store/db"
	"github.com/GoldenCloudGuy/DecentraPay/pricer"
)

func main() {
	confPath := flag.String("c", "", "flag to get configuration from json file")
	monitor := flag.Bool("m", false, "flag to monitor the server with Prometheus at http://localhost:9090")
	dev := flag.Bool("d", false, "flag to log in development (console) format")
	flag.Parse()

	conf, err := config.ExtractConfiguration(*confPath)
	if err != nil {
		panic(err)
	}

	log, err := logging.New(conf.LogLevel, *dev)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck // nothing to do

	log.Info("configuration loaded", zap.String("dbtype", conf.DBType), zap.String("port", conf.PricerPort),
		zap.Strings("symbols", conf.Market.Symbols), zap.Strings("currencies", conf.Market.Currencies),
		zap.Int("pollinterval", conf.Market.Interval))

	dbConn, err := db.New(conf.DBType, conf.DBConn, conf.DBName)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}

	// the ethereum node is optional, without it balances cannot be checked
	bc, err := block.Init(conf.EthNode, conf.EthSecret)
	if err != nil {
		log.Warn("no ethereum node, /check-wallet disabled", zap.Error(err))
	}

	if *monitor {
		go func() {
			log.Info("serving metrics API", zap.String("port", conf.MetricsPort))

			h := http.NewServeMux()
			h.Handle("/metrics", promhttp.Handler())

			if err := http.ListenAndServe(":"+conf.MetricsPort, h); err != nil { //nolint:gosec // metrics endpoint
				log.Error("metrics API stopped", zap.Error(err))
			}
		}()
	}

	p := pricer.New(conf.DBType, dbConn, market.New(conf.Market.CoinGecko, conf.Market.Rates, nil), bc,
		conf.Market.Symbols, conf.Market.Currencies, log)
	p.SetToken(pricer.Token{Symbol: conf.Token.Symbol, Contract: conf.Token.Contract, Decimals: conf.Token.Decimals})

	if conf.Market.Interval > 0 {
		done := p.Poll(time.Duration(conf.Market.Interval) * time.Second)

		go func() {
			log.Info("poll", zap.String("status", <-done))
		}()
	}

	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Info("program killed")
		p.Stop()
	}()

	log.Info(p.Init(conf.Endpoint, conf.PricerPort, conf.SSLPort, conf.SSLCert, conf.SSLKey))
}
