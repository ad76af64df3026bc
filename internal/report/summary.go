package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// Summary aggregates a set of trades. Wins and losses are judged by
// profit/loss when recorded, by pips otherwise; open trades are neither.
type Summary struct {
	Total       int             `json:"total"`
	Open        int             `json:"open"`
	Closed      int             `json:"closed"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	WinRate     float64         `json:"win_rate"`
	NetPips     decimal.Decimal `json:"net_pips"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	AverageWin  decimal.Decimal `json:"average_win"`
	AverageLoss decimal.Decimal `json:"average_loss"`
	BestPair    string          `json:"best_pair,omitempty"`
	WorstPair   string          `json:"worst_pair,omitempty"`
}

func Summarize(trades []models.Trade) Summary {
	s := Summary{Total: len(trades)}
	winSum := decimal.Zero
	lossSum := decimal.Zero
	byPair := map[string]decimal.Decimal{}

	for _, t := range trades {
		if t.Status == models.TradeStatusOpen {
			s.Open++
			continue
		}
		s.Closed++
		pips := decimal.Zero
		if t.Pips != nil {
			pips = *t.Pips
		}
		s.NetPips = s.NetPips.Add(pips)
		outcome := pips
		if t.ProfitLoss != nil {
			s.NetProfit = s.NetProfit.Add(*t.ProfitLoss)
			outcome = *t.ProfitLoss
		}
		byPair[t.CurrencyPair] = byPair[t.CurrencyPair].Add(outcome)
		switch outcome.Sign() {
		case 1:
			s.Wins++
			winSum = winSum.Add(outcome)
		case -1:
			s.Losses++
			lossSum = lossSum.Add(outcome)
		}
	}
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate, _ = decimal.NewFromInt(int64(s.Wins * 100)).
			Div(decimal.NewFromInt(int64(decided))).
			Round(2).Float64()
	}
	if s.Wins > 0 {
		s.AverageWin = winSum.Div(decimal.NewFromInt(int64(s.Wins))).Round(2)
	}
	if s.Losses > 0 {
		s.AverageLoss = lossSum.Div(decimal.NewFromInt(int64(s.Losses))).Round(2)
	}
	s.BestPair, s.WorstPair = extremes(byPair)
	return s
}

func extremes(byPair map[string]decimal.Decimal) (string, string) {
	if len(byPair) == 0 {
		return "", ""
	}
	pairs := make([]string, 0, len(byPair))
	for p := range byPair {
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)
	best, worst := pairs[0], pairs[0]
	for _, p := range pairs[1:] {
		if byPair[p].GreaterThan(byPair[best]) {
			best = p
		}
		if byPair[p].LessThan(byPair[worst]) {
			worst = p
		}
	}
	return best, worst
}
