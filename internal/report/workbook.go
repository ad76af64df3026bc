package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tradejournal/internal/models"
)

const (
	tradesSheet  = "Trades"
	summarySheet = "Summary"

	fillGreen = "#C6EFCE"
	fillRed   = "#FFC7CE"
)

var tradeHeader = []any{
	"Date", "Pair", "Direction", "Status", "Entry", "Exit", "Lot size",
	"Stop loss", "Take profit", "Pips", "P/L", "Strategy", "Tags", "Notes",
}

// WorkbookInput is everything rendered into one report spreadsheet.
type WorkbookInput struct {
	Title    string
	Start    time.Time
	End      time.Time
	Trades   []models.Trade
	Summary  Summary
	Password string
}

// BuildWorkbook renders trades plus a protected summary sheet and returns the
// xlsx bytes.
func BuildWorkbook(in WorkbookInput) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", tradesSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	green, err := fillStyle(f, fillGreen)
	if err != nil {
		return nil, err
	}
	red, err := fillStyle(f, fillRed)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(tradesSheet, "A1", &tradeHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(tradesSheet, "A1", "N1", bold); err != nil {
		return nil, err
	}
	for i, t := range in.Trades {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{
			t.TradeDate.Format("2006-01-02 15:04"),
			t.CurrencyPair,
			t.Direction,
			t.Status,
			t.EntryPrice.InexactFloat64(),
			optFloat(t.ExitPrice),
			t.LotSize.InexactFloat64(),
			optFloat(t.StopLoss),
			optFloat(t.TakeProfit),
			optFloat(t.Pips),
			optFloat(t.ProfitLoss),
			t.Strategy,
			tagsText(t.Tags),
			t.Notes,
		}
		if err := f.SetSheetRow(tradesSheet, cell, &values); err != nil {
			return nil, err
		}
		if outcome := tradeOutcome(t); outcome != 0 {
			style := green
			if outcome < 0 {
				style = red
			}
			from, _ := excelize.CoordinatesToCellName(10, row)
			to, _ := excelize.CoordinatesToCellName(11, row)
			if err := f.SetCellStyle(tradesSheet, from, to, style); err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetColWidth(tradesSheet, "A", "A", 18)
	_ = f.SetColWidth(tradesSheet, "B", "L", 12)
	_ = f.SetColWidth(tradesSheet, "M", "N", 30)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	s := in.Summary
	rows := [][]any{
		{in.Title, ""},
		{"Period", fmt.Sprintf("%s to %s", in.Start.Format("2006-01-02"), in.End.AddDate(0, 0, -1).Format("2006-01-02"))},
		{"Total trades", s.Total},
		{"Wins", s.Wins},
		{"Losses", s.Losses},
		{"Win rate %", s.WinRate},
		{"Net pips", s.NetPips.InexactFloat64()},
		{"Net P/L", s.NetProfit.InexactFloat64()},
		{"Best pair", s.BestPair},
		{"Worst pair", s.WorstPair},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := r
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A10", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "B6", "B6", pick(s.WinRate >= 50, green, red)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "B7", "B7", pick(!s.NetPips.IsNegative(), green, red)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "B8", "B8", pick(!s.NetProfit.IsNegative(), green, red)); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 24)
	if err := f.ProtectSheet(summarySheet, &excelize.SheetProtectionOptions{
		Password:            in.Password,
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func optFloat(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

func tradeOutcome(t models.Trade) int {
	if t.ProfitLoss != nil {
		return t.ProfitLoss.Sign()
	}
	if t.Pips != nil {
		return t.Pips.Sign()
	}
	return 0
}

func tagsText(raw []byte) string {
	var tags []string
	if len(raw) == 0 || json.Unmarshal(raw, &tags) != nil {
		return ""
	}
	return strings.Join(tags, ", ")
}
