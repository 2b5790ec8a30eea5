// Package main: wallet service.
//
// The wallet service generates wallets for the supported blockchains and stores them in the configured database.
// Monero wallets require a running monero-wallet-rpc (see the chains.monero settings). When a message broker is
// configured, the public part of every new wallet is published to the "we" exchange.
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

	"github.com/GoldenCloudGuy/DecentraPay/lib/chain"
	"github.com/GoldenCloudGuy/DecentraPay/lib/config"
	"github.com/GoldenCloudGuy/DecentraPay/lib/logging"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg/amqp"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store/db"
	"github.com/GoldenCloudGuy/DecentraPay/wallet"
)

func main() {
	// get command line flags
	confPath := flag.String("c", "", "flag to get configuration from json file")
	monitor := flag.Bool("m", false, "flag to monitor the server with Prometheus at http://localhost:9090")
	dev := flag.Bool("d", false, "flag to log in development (console) format")
	flag.Parse()

	// extract configuration
	conf, err := config.ExtractConfiguration(*confPath)
	if err != nil {
		panic(err)
	}

	log, err := logging.New(conf.LogLevel, *dev)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck // nothing to do

	log.Info("configuration loaded", zap.String("dbtype", conf.DBType), zap.String("mbtype", conf.MbType),
		zap.String("port", conf.WalletPort), zap.String("btcnet", conf.Chains.BtcNetwork),
		zap.String("xmrnet", conf.Chains.Monero.Network))

	// connect to database
	dbConn, err := db.New(conf.DBType, conf.DBConn, conf.DBName)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}

	// load key providers
	reg, err := chain.Init(conf.Chains)
	if err != nil {
		log.Fatal("cannot load key providers", zap.Error(err))
	}

	log.Info("key providers loaded", zap.Strings("types", reg.Types()))

	// load Prometheus monitor
	if *monitor {
		go serveMetrics(log, conf.MetricsPort)
	}

	// load message broker
	var mb msg.MsgBroker

	switch conf.MbType {
	case "amqp":
		r, err := amqp.New(conf.MbConn, log)
		if err != nil {
			time.Sleep(10 * time.Second) // wait 10s for AMQP to be ready and try to reconnect

			if r, err = amqp.New(conf.MbConn, log); err != nil {
				log.Fatal("cannot connect to message broker", zap.Error(err))
			}
		}

		if err = r.Setup(nil); err != nil {
			log.Fatal("cannot set up message broker", zap.Error(err))
		}

		mb = r
	case "":
		log.Info("no message broker, wallet events disabled")
	default:
		log.Warn("unknown message broker type", zap.String("mbtype", conf.MbType))
	}

	// create wallet service
	w := wallet.New(conf.DBType, dbConn, mb, reg, log)

	// capture CTRL+C or docker's SIGTERM for gracious exit
	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Info("program killed")
		// do last actions and wait for all write operations to end
		w.Stop()
	}()

	// init RESTful API, wait for its return and log response
	log.Info(w.Init(conf.Endpoint, conf.WalletPort, conf.SSLPort, conf.SSLCert, conf.SSLKey))
}

func serveMetrics(log *zap.Logger, port string) {
	log.Info("serving metrics API", zap.String("port", port))

	h := http.NewServeMux()
	h.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, h); err != nil { //nolint:gosec // metrics endpoint
		log.Error("metrics API stopped", zap.Error(err))
	}
}
