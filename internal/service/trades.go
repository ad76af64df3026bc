package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/report"
	"tradejournal/internal/repository"
)

// TradeInput carries create and partial-update fields; nil means "not sent".
type TradeInput struct {
	CurrencyPair *string          `json:"currency_pair"`
	Direction    *string          `json:"direction"`
	Status       *string          `json:"status"`
	EntryPrice   *decimal.Decimal `json:"entry_price"`
	ExitPrice    *decimal.Decimal `json:"exit_price"`
	LotSize      *decimal.Decimal `json:"lot_size"`
	StopLoss     *decimal.Decimal `json:"stop_loss"`
	TakeProfit   *decimal.Decimal `json:"take_profit"`
	Pips         *decimal.Decimal `json:"pips"`
	ProfitLoss   *decimal.Decimal `json:"profit_loss"`
	TradeDate    *time.Time       `json:"trade_date"`
	Strategy     *string          `json:"strategy"`
	Notes        *string          `json:"notes"`
	Tags         *[]string        `json:"tags"`
}

type TradeService struct {
	Repo   repository.TradeRepository
	Logger *zap.Logger
}

func (s *TradeService) Create(ctx context.Context, userID string, in TradeInput) (*models.Trade, error) {
	switch {
	case in.CurrencyPair == nil || strings.TrimSpace(*in.CurrencyPair) == "":
		return nil, invalid("currency_pair is required")
	case in.Direction == nil:
		return nil, invalid("direction is required")
	case in.EntryPrice == nil:
		return nil, invalid("entry_price is required")
	case in.LotSize == nil:
		return nil, invalid("lot_size is required")
	case in.TradeDate == nil || in.TradeDate.IsZero():
		return nil, invalid("trade_date is required")
	}
	item := &models.Trade{UserID: userID, Tags: datatypes.JSON("[]")}
	if err := applyTradeInput(item, in); err != nil {
		return nil, err
	}
	if in.Status == nil {
		item.Status = models.TradeStatusOpen
		if item.ExitPrice != nil {
			item.Status = models.TradeStatusClosed
		}
	}
	if err := s.Repo.InsertTrade(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TradeService) Get(ctx context.Context, userID, id string) (*models.Trade, error) {
	item, err := s.Repo.GetTrade(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound("trade")
	}
	if err := checkRow(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TradeService) Update(ctx context.Context, userID, id string, in TradeInput) (*models.Trade, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	hadExit := item.ExitPrice != nil
	if err := applyTradeInput(item, in); err != nil {
		return nil, err
	}
	if in.Status == nil && !hadExit && item.ExitPrice != nil {
		item.Status = models.TradeStatusClosed
	}
	if err := s.Repo.SaveTrade(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("trade")
		}
		return nil, err
	}
	return item, nil
}

func (s *TradeService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.Repo.DeleteTrade(ctx, userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("trade")
	}
	return nil
}

type TradeFilter struct {
	From         *time.Time
	To           *time.Time
	Status       *string
	CurrencyPair *string
	Ascending    bool
	Limit        int
	Offset       int
}

func (s *TradeService) List(ctx context.Context, userID string, f TradeFilter) ([]models.Trade, int64, error) {
	asc := f.Ascending
	params := repository.ListTradesParams{
		UserID:       userID,
		Limit:        f.Limit,
		Offset:       f.Offset,
		From:         f.From,
		To:           f.To,
		Status:       upperPtr(f.Status),
		CurrencyPair: pairPtr(f.CurrencyPair),
		OrderBy:      "trade_date",
		Asc:          &asc,
	}
	items, err := s.Repo.ListTrades(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountTrades(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats scans the caller's full trade set inside the optional window.
func (s *TradeService) Stats(ctx context.Context, userID string, from, to *time.Time) (report.Summary, error) {
	items, err := s.Repo.ListAllTrades(ctx, userID, from, to)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(items), nil
}

func applyTradeInput(item *models.Trade, in TradeInput) error {
	if in.CurrencyPair != nil {
		pair := NormalizePair(*in.CurrencyPair)
		if pair == "" {
			return invalid("currency_pair is required")
		}
		item.CurrencyPair = pair
	}
	if in.Direction != nil {
		d := strings.ToUpper(strings.TrimSpace(*in.Direction))
		if d != models.TradeDirectionBuy && d != models.TradeDirectionSell {
			return invalid("direction must be BUY or SELL")
		}
		item.Direction = d
	}
	if in.Status != nil {
		st := strings.ToUpper(strings.TrimSpace(*in.Status))
		if st != models.TradeStatusOpen && st != models.TradeStatusClosed {
			return invalid("status must be OPEN or CLOSED")
		}
		item.Status = st
	}
	if in.EntryPrice != nil {
		if !in.EntryPrice.IsPositive() {
			return invalid("entry_price must be positive")
		}
		item.EntryPrice = *in.EntryPrice
	}
	if in.LotSize != nil {
		if !in.LotSize.IsPositive() {
			return invalid("lot_size must be positive")
		}
		item.LotSize = *in.LotSize
	}
	if in.ExitPrice != nil {
		if !in.ExitPrice.IsPositive() {
			return invalid("exit_price must be positive")
		}
		item.ExitPrice = in.ExitPrice
	}
	if in.StopLoss != nil {
		item.StopLoss = in.StopLoss
	}
	if in.TakeProfit != nil {
		item.TakeProfit = in.TakeProfit
	}
	if in.ProfitLoss != nil {
		item.ProfitLoss = in.ProfitLoss
	}
	if in.TradeDate != nil && !in.TradeDate.IsZero() {
		item.TradeDate = in.TradeDate.UTC()
	}
	if in.Strategy != nil {
		item.Strategy = strings.TrimSpace(*in.Strategy)
	}
	if in.Notes != nil {
		item.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Tags != nil {
		tags := cleanTags(*in.Tags)
		raw, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		item.Tags = datatypes.JSON(raw)
	}
	switch {
	case in.Pips != nil:
		item.Pips = in.Pips
	case item.ExitPrice != nil && (in.ExitPrice != nil || in.EntryPrice != nil || in.Direction != nil || in.CurrencyPair != nil || item.Pips == nil):
		pips := ComputePips(item.CurrencyPair, item.Direction, item.EntryPrice, *item.ExitPrice)
		item.Pips = &pips
	}
	return nil
}

// ComputePips returns the signed pip distance from entry to exit. JPY-quoted
// pairs use a 0.01 pip, everything else 0.0001.
func ComputePips(pair, direction string, entry, exit decimal.Decimal) decimal.Decimal {
	size := decimal.New(1, -4)
	if strings.HasSuffix(pair, "JPY") {
		size = decimal.New(1, -2)
	}
	diff := exit.Sub(entry)
	if direction == models.TradeDirectionSell {
		diff = diff.Neg()
	}
	return diff.Div(size).Round(1)
}

// NormalizePair upper-cases a pair and drops separators: "eur/usd" -> "EURUSD".
func NormalizePair(pair string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(pair)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		v := strings.TrimSpace(t)
		if v == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(v)]; ok {
			continue
		}
		seen[strings.ToLower(v)] = struct{}{}
		out = append(out, v)
	}
	return out
}

func upperPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*p))
	return &v
}

func pairPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := NormalizePair(*p)
	return &v
}
