// Package main: mailer service.
//
// The mailer relays emails requested on /send-email, or published to the "mr" exchange of the message broker, to the
// configured SMTP server (implicit TLS).
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

	"github.com/GoldenCloudGuy/DecentraPay/lib/config"
	"github.com/GoldenCloudGuy/DecentraPay/lib/logging"
	"github.com/GoldenCloudGuy/DecentraPay/lib/mail/smtp"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
	"github.com/GoldenCloudGuy/DecentraPay/lib/msg/amqp"
	"github.com/GoldenCloudGuy/DecentraPay/mailer"
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

	log.Info("configuration loaded", zap.String("smtp", conf.SMTP.Host+":"+conf.SMTP.Port),
		zap.String("user", conf.SMTP.User), zap.String("mbtype", conf.MbType), zap.String("port", conf.MailerPort))

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
	default:
		log.Warn("unknown message broker type", zap.String("mbtype", conf.MbType))
	}

	m := mailer.New(&smtp.SMTP{
		Host:     conf.SMTP.Host,
		Port:     conf.SMTP.Port,
		User:     conf.SMTP.User,
		Pass:     conf.SMTP.Pass,
		FromName: conf.SMTP.FromName,
	}, mb, log)

	if err = m.ManageRequests(); err != nil {
		log.Error("error setting up broker readers for mail requests", zap.Error(err))
	}

	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Info("program killed")
		m.Stop()
	}()

	log.Info(m.Init(conf.Endpoint, conf.MailerPort, conf.SSLPort, conf.SSLCert, conf.SSLKey))
}
