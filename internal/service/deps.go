package service

import (
	"context"
	"time"

	"tradejournal/internal/email"
	"tradejournal/internal/marketdata"
)

// Mailer delivers one email through the transactional email API.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) (string, error)
}

type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, system, user string) (string, error)
}

type MarketData interface {
	PreviousClose(ctx context.Context, pair string) (marketdata.Bar, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, body []byte) error
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
