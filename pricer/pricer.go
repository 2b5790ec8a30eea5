// Package pricer implements the market data microservice. The pricer fetches crypto prices and fiat exchange rates
// from third party APIs and appends timestamped snapshots to the store, either on request or periodically. It also
// replies the ether balance of an address read from an ethereum node.
package pricer

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/block"
	"github.com/GoldenCloudGuy/DecentraPay/lib/market"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
	"github.com/GoldenCloudGuy/DecentraPay/lib/store/db"
)

// Base is the currency the exchange rates are relative to.
const Base = "USD"

// Errors returned
var (
	ErrPrices = errors.New("Unable to update crypto prices")
	ErrRates  = errors.New("Unable to update exchange rates")
)

// Token is an ERC20 token whose balance is checked along with ether.
type Token struct {
	Symbol   string
	Contract string
	Decimals int32
}

// Market is the market data source.
type Market interface {
	Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	Rates(ctx context.Context, base string, currencies []string) (map[string]float64, error)
}

// Pricer implements the pricer service.
type Pricer struct {
	dbtype     string
	db         store.DB
	m          Market
	bc         block.Chain // optional
	tok        Token       // optional
	symbols    []string
	currencies []string
	log        *zap.Logger
	quit       chan struct{} // closed to stop polling
	mu         sync.Mutex    // guards s and ss
	s          *http.Server
	ss         *http.Server
	sc         chan struct{}
}

// New instantiates a new pricer service. bc may be nil, then balances cannot be checked.
func New(dbtype string, db store.DB, m Market, bc block.Chain, symbols, currencies []string,
	log *zap.Logger) *Pricer {
	return &Pricer{
		dbtype:     dbtype,
		db:         db,
		m:          m,
		bc:         bc,
		symbols:    symbols,
		currencies: currencies,
		log:        log,
		quit:       make(chan struct{}),
		sc:         make(chan struct{}),
	}
}

// UpdatePrices fetches the USD price of the tracked symbols, stores one snapshot row per symbol and returns the
// prices formatted as dollars.
func (p *Pricer) UpdatePrices(ctx context.Context) (map[string]string, error) {
	prices, err := p.m.Prices(ctx, p.symbols)
	if err != nil {
		updates.WithLabelValues("prices", "error").Inc()
		p.log.Error("error fetching crypto prices", zap.Error(err))

		return nil, ErrPrices
	}

	now := time.Now().UTC()
	res := make(map[string]string, len(prices))
	rows := make([]store.Price, 0, len(prices))

	for s, v := range prices {
		res[s] = market.USD(v)
		rows = append(rows, store.Price{Symbol: s, Price: res[s], Timestamp: now})
	}

	if err = p.db.AddPrices(ctx, rows); err != nil {
		updates.WithLabelValues("prices", "error").Inc()
		p.log.Error("error storing crypto prices", zap.Error(err))

		return nil, ErrPrices
	}

	updates.WithLabelValues("prices", "ok").Inc()

	return res, nil
}

// UpdateRates fetches the exchange rates of the tracked fiat currencies, stores one snapshot row per currency and
// returns the rates.
func (p *Pricer) UpdateRates(ctx context.Context) (map[string]float64, error) {
	rates, err := p.m.Rates(ctx, Base, p.currencies)
	if err != nil {
		updates.WithLabelValues("rates", "error").Inc()
		p.log.Error("error fetching exchange rates", zap.Error(err))

		return nil, ErrRates
	}

	now := time.Now().UTC()
	rows := make([]store.Rate, 0, len(rates))

	for c, r := range rates {
		rows = append(rows, store.Rate{Currency: c, Rate: r, Timestamp: now})
	}

	if err = p.db.AddRates(ctx, rows); err != nil {
		updates.WithLabelValues("rates", "error").Inc()
		p.log.Error("error storing exchange rates", zap.Error(err))

		return nil, ErrRates
	}

	updates.WithLabelValues("rates", "ok").Inc()

	return rates, nil
}

// SetToken sets the ERC20 token whose balance is checked along with ether. An empty contract disables it.
func (p *Pricer) SetToken(t Token) {
	p.tok = t
}

// Balance returns the ether balance of address, plus its token balance if a token is set, by symbol.
func (p *Pricer) Balance(ctx context.Context, address string) (map[string]decimal.Decimal, error) {
	if p.bc == nil {
		return nil, block.ErrNoNode
	}

	bal, tokBal, err := p.bc.Balance(ctx, address, p.tok.Contract)
	if err != nil {
		return nil, err
	}

	res := map[string]decimal.Decimal{"ETH": block.Amount(bal, p.bc.Decimals())}
	if p.tok.Contract != "" {
		res[p.tok.Symbol] = block.Amount(tokBal, p.tok.Decimals)
	}

	return res, nil
}

// Poll starts a go routine updating prices and exchange rates every interval until Stop is called. The returned
// channel receives a message when the routine has finished.
func (p *Pricer) Poll(interval time.Duration) chan string {
	ret := make(chan string, 1)

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		p.log.Info("polling market data", zap.Duration("interval", interval))

		for {
			select {
			case <-p.quit:
				ret <- "Done!"

				return
			case <-t.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				// errors are logged by the updates
				_, _ = p.UpdatePrices(ctx)
				_, _ = p.UpdateRates(ctx)

				cancel()
			}
		}
	}()

	return ret
}

// Stop ends polling, shuts down the http servers and closes the connections to the ethereum node and database.
func (p *Pricer) Stop() {
	close(p.quit)

	p.mu.Lock()
	s, ss := p.s, p.ss
	p.mu.Unlock()

	if s != nil {
		if err := s.Shutdown(context.Background()); err != nil {
			p.log.Error("error in http server shutdown", zap.Error(err))
		}
	}

	if ss != nil {
		if err := ss.Shutdown(context.Background()); err != nil {
			p.log.Error("error in https server shutdown", zap.Error(err))
		}
	}

	close(p.sc)

	if p.bc != nil {
		p.bc.Close()
	}

	err := db.Close(p.dbtype, p.db)
	p.log.Info("disconnecting database", zap.String("type", p.dbtype), zap.Error(err))
}
