// Package market implements the clients of the market data APIs: CoinGecko for crypto prices and open.er-api for
// fiat exchange rates.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CoinIDs maps the tracked symbols to their CoinGecko ids. Other symbols are looked up in /coins/list.
var CoinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"BNB":  "binancecoin",
	"XMR":  "monero",
	"XRP":  "ripple",
	"SOL":  "solana",
}

// Errors returned
var (
	ErrStatus = errors.New("unexpected response status")
	ErrRates  = errors.New("failed to fetch exchange rates")
)

// Client queries the market APIs.
type Client struct {
	coingecko string
	rates     string
	c         *http.Client
}

// New returns a Client for the given API base URLs. If c is nil a client with a 30 seconds timeout is used.
func New(coingecko, rates string, c *http.Client) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second} //nolint:gomnd // 30 seconds timeout
	}

	return &Client{
		coingecko: strings.TrimRight(coingecko, "/"),
		rates:     strings.TrimRight(rates, "/"),
		c:         c,
	}
}

// get decodes the JSON body of a GET to u into v.
func (c *Client) get(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrStatus, res.Status)
	}

	return json.NewDecoder(res.Body).Decode(v)
}

// IDs returns the CoinGecko id of each symbol. Symbols without a known id are absent from the result.
func (c *Client) IDs(ctx context.Context, symbols []string) (map[string]string, error) {
	ids := make(map[string]string, len(symbols))

	var missing []string

	for _, s := range symbols {
		if id, ok := CoinIDs[s]; ok {
			ids[s] = id
		} else {
			missing = append(missing, s)
		}
	}

	if len(missing) == 0 {
		return ids, nil
	}

	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}

	if err := c.get(ctx, c.coingecko+"/coins/list", &coins); err != nil {
		return nil, fmt.Errorf("unable to fetch coin ids: %w", err)
	}

	for _, s := range missing {
		for _, coin := range coins {
			if strings.EqualFold(coin.Symbol, s) {
				ids[s] = coin.ID

				break
			}
		}
	}

	return ids, nil
}

// Prices returns the USD price of each symbol found in CoinGecko.
func (c *Client) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	ids, err := c.IDs(ctx, symbols)
	if err != nil {
		return nil, err
	}

	list := make([]string, 0, len(ids))
	for _, id := range ids {
		list = append(list, id)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(list, ","))
	q.Set("vs_currencies", "usd")

	var res map[string]map[string]decimal.Decimal
	if err = c.get(ctx, c.coingecko+"/simple/price?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("unable to fetch prices: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(ids))

	for s, id := range ids {
		if p, ok := res[id]["usd"]; ok && !p.IsZero() {
			prices[s] = p
		}
	}

	return prices, nil
}

// Rates returns the exchange rates of currencies relative to base. Currencies without a rate are absent.
func (c *Client) Rates(ctx context.Context, base string, currencies []string) (map[string]float64, error) {
	var res struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}

	if err := c.get(ctx, c.rates+"/latest/"+url.PathEscape(base), &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRates, err)
	}

	if res.Rates == nil || (res.Result != "" && res.Result != "success") {
		return nil, ErrRates
	}

	rates := make(map[string]float64, len(currencies))

	for _, cur := range currencies {
		if r, ok := res.Rates[cur]; ok && r != 0 {
			rates[cur] = r
		}
	}

	return rates, nil
}

// USD formats an amount as dollars with two decimals (ie. "$1234.50").
func USD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2) //nolint:gomnd // cents
}
