package marketdata

import (
	"context"
	"testing"

	"tradejournal/internal/config"
)

func TestTicker(t *testing.T) {
	cases := map[string]string{
		"EURUSD":  "C:EURUSD",
		"eur/usd": "C:EURUSD",
		"GBP-JPY": "C:GBPJPY",
		"XAU":     "",
		"":        "",
	}
	for in, want := range cases {
		if got := Ticker(in); got != want {
			t.Fatalf("Ticker(%q)=%q want %q", in, got, want)
		}
	}
}

func TestPreviousClose_DisabledWithoutKey(t *testing.T) {
	c := New(config.MarketDataConfig{})
	if _, err := c.PreviousClose(context.Background(), "EURUSD"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
