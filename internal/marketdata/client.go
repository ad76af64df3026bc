package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"tradejournal/internal/config"
)

var ErrNoData = errors.New("no market data")

// Bar is the most recent complete daily bar of a currency pair.
type Bar struct {
	Ticker string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	At     time.Time
}

type Client struct {
	rest    *polygonrest.Client
	enabled bool
}

func New(cfg config.MarketDataConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	key := strings.TrimSpace(cfg.APIKey)
	return &Client{
		rest:    polygonrest.NewWithClient(key, &http.Client{Timeout: timeout}),
		enabled: key != "",
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// PreviousClose returns the previous trading day's bar for pair (e.g. "EUR/USD").
func (c *Client) PreviousClose(ctx context.Context, pair string) (Bar, error) {
	if !c.Enabled() {
		return Bar{}, errors.New("market data api key is empty")
	}
	ticker := Ticker(pair)
	if ticker == "" {
		return Bar{}, fmt.Errorf("invalid currency pair %q", pair)
	}
	adjusted := true
	resp, err := c.rest.GetPreviousCloseAgg(ctx, &rmodels.GetPreviousCloseAggParams{
		Ticker:   ticker,
		Adjusted: &adjusted,
	})
	if err != nil {
		return Bar{}, err
	}
	if resp == nil || len(resp.Results) == 0 {
		return Bar{}, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}
	a := resp.Results[0]
	return Bar{
		Ticker: ticker,
		Open:   a.Open,
		High:   a.High,
		Low:    a.Low,
		Close:  a.Close,
		Volume: a.Volume,
		At:     time.Time(a.Timestamp).UTC(),
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.PreviousClose(ctx, "EURUSD")
	return err
}

// Ticker maps "eur/usd", "EUR-USD" or "EURUSD" to the forex ticker "C:EURUSD".
func Ticker(pair string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(pair) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) != 6 {
		return ""
	}
	return "C:" + s
}
