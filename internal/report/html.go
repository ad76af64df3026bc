package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"tradejournal/internal/models"
)

const maxEmailRows = 50

// Sanitizer cleans user-authored text before it is placed in email HTML.
type Sanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{strict: bluemonday.StrictPolicy(), ugc: bluemonday.UGCPolicy()}
}

// Text strips all markup.
func (s *Sanitizer) Text(in string) string {
	return s.strict.Sanitize(in)
}

// Rich keeps safe formatting tags such as links, lists and emphasis.
func (s *Sanitizer) Rich(in string) template.HTML {
	return template.HTML(s.ugc.Sanitize(in))
}

var reportTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>{{.Title}}</h2>
<p>{{.From}} to {{.To}}</p>
{{if .Summary.Total}}
<table cellpadding="6" style="border-collapse:collapse">
<tr><td>Total trades</td><td><b>{{.Summary.Total}}</b></td></tr>
<tr><td>Win rate</td><td style="background:{{.WinRateColor}}"><b>{{printf "%.1f" .Summary.WinRate}}%</b></td></tr>
<tr><td>Net pips</td><td style="background:{{.PipsColor}}"><b>{{.Summary.NetPips.StringFixed 1}}</b></td></tr>
<tr><td>Net P/L</td><td style="background:{{.ProfitColor}}"><b>{{.Summary.NetProfit.StringFixed 2}}</b></td></tr>
{{if .Summary.BestPair}}<tr><td>Best pair</td><td>{{.Summary.BestPair}}</td></tr>{{end}}
{{if .Summary.WorstPair}}<tr><td>Worst pair</td><td>{{.Summary.WorstPair}}</td></tr>{{end}}
</table>
<h3>Trades</h3>
<table cellpadding="4" border="1" style="border-collapse:collapse;font-size:12px">
<tr><th>Date</th><th>Pair</th><th>Side</th><th>Pips</th><th>P/L</th><th>Notes</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Pair}}</td><td>{{.Direction}}</td><td>{{.Pips}}</td><td>{{.ProfitLoss}}</td><td>{{.Notes}}</td></tr>
{{end}}</table>
{{if .Truncated}}<p>Showing the first {{len .Rows}} trades. The attached spreadsheet has all of them.</p>{{end}}
{{else}}
<p>No trades were recorded in this period.</p>
{{end}}
{{if .PreferencesURL}}<p style="font-size:11px;color:#888"><a href="{{.PreferencesURL}}">Manage email preferences</a></p>{{end}}
</body></html>`))

var announcementTmpl = template.Must(template.New("announcement").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>{{.Subject}}</h2>
<div>{{.Body}}</div>
{{if .PreferencesURL}}<p style="font-size:11px;color:#888"><a href="{{.PreferencesURL}}">Manage email preferences</a></p>{{end}}
</body></html>`))

type emailRow struct {
	Date       string
	Pair       string
	Direction  string
	Pips       string
	ProfitLoss string
	Notes      string
}

type ReportEmail struct {
	Title          string
	Start          time.Time
	End            time.Time
	Trades         []models.Trade
	Summary        Summary
	PreferencesURL string
}

func (s *Sanitizer) RenderReport(in ReportEmail) (string, error) {
	rows := make([]emailRow, 0, min(len(in.Trades), maxEmailRows))
	for i, t := range in.Trades {
		if i >= maxEmailRows {
			break
		}
		row := emailRow{
			Date:      t.TradeDate.Format("2006-01-02"),
			Pair:      t.CurrencyPair,
			Direction: t.Direction,
			Notes:     s.Text(t.Notes),
		}
		if t.Pips != nil {
			row.Pips = t.Pips.StringFixed(1)
		}
		if t.ProfitLoss != nil {
			row.ProfitLoss = t.ProfitLoss.StringFixed(2)
		}
		rows = append(rows, row)
	}
	data := map[string]any{
		"Title":          in.Title,
		"From":           in.Start.Format("Jan 2, 2006"),
		"To":             in.End.AddDate(0, 0, -1).Format("Jan 2, 2006"),
		"Summary":        in.Summary,
		"Rows":           rows,
		"Truncated":      len(in.Trades) > maxEmailRows,
		"WinRateColor":   color(in.Summary.WinRate >= 50),
		"PipsColor":      color(!in.Summary.NetPips.IsNegative()),
		"ProfitColor":    color(!in.Summary.NetProfit.IsNegative()),
		"PreferencesURL": in.PreferencesURL,
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Sanitizer) RenderAnnouncement(subject, body, preferencesURL string) (string, error) {
	var buf bytes.Buffer
	err := announcementTmpl.Execute(&buf, map[string]any{
		"Subject":        subject,
		"Body":           s.Rich(body),
		"PreferencesURL": preferencesURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func color(good bool) string {
	if good {
		return fillGreen
	}
	return fillRed
}

var analysisTmpl = template.Must(template.New("analysis").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>{{.Pair}} top-down analysis</h2>
<p>Status: <b>{{.Status}}</b>{{if .Recommendation}} &middot; Recommendation: <b>{{.Recommendation}}</b>{{end}}</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td>Overall probability</td><td><b>{{printf "%.1f" .Probability}}%</b></td></tr>
<tr><td>Confidence</td><td><b>{{printf "%.1f" .Confidence}}%</b></td></tr>
{{if .Risk}}<tr><td>Risk</td><td>{{.Risk}}</td></tr>{{end}}
</table>
{{if .Timeframes}}<h3>Timeframes</h3>
<table cellpadding="4" border="1" style="border-collapse:collapse;font-size:12px">
<tr><th>Timeframe</th><th>Sentiment</th><th>Probability</th><th>Strength</th></tr>
{{range .Timeframes}}<tr><td>{{.Timeframe}}</td><td>{{.Sentiment}}</td><td>{{printf "%.0f" .Probability}}</td><td>{{printf "%.0f" .Strength}}</td></tr>
{{end}}</table>{{end}}
{{if .Summary}}<h3>Summary</h3><p>{{.Summary}}</p>{{end}}
{{if .Reasoning}}<h3>Reasoning</h3><p>{{.Reasoning}}</p>{{end}}
</body></html>`))

func (s *Sanitizer) RenderAnalysis(a models.Analysis, timeframes []models.TimeframeAnalysis) (string, error) {
	var buf bytes.Buffer
	err := analysisTmpl.Execute(&buf, map[string]any{
		"Pair":           a.CurrencyPair,
		"Status":         a.Status,
		"Recommendation": a.TradeRecommendation,
		"Probability":    a.OverallProbability,
		"Confidence":     a.ConfidenceLevel,
		"Risk":           a.RiskLevel,
		"Timeframes":     timeframes,
		"Summary":        s.Text(a.Summary),
		"Reasoning":      s.Text(a.Reasoning),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
