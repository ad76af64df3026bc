package tda

import (
	"fmt"
	"strings"
)

// TimeframeInput is one timeframe as fed to reasoning generation.
type TimeframeInput struct {
	Timeframe   string  `json:"timeframe"`
	Sentiment   string  `json:"sentiment"`
	Probability float64 `json:"probability"`
	Strength    float64 `json:"strength"`
	Notes       string  `json:"notes,omitempty"`
}

// TemplateReasoning explains a timeframe from its numbers alone.
func TemplateReasoning(pair string, tf TimeframeInput, signal *MarketSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s reads %s with %.0f%% probability and %.0f%% strength.",
		pair, tf.Timeframe, strings.ToLower(orNeutral(tf.Sentiment)), tf.Probability, tf.Strength)
	if signal == nil {
		b.WriteString(" No live market data was available to cross-check this view.")
		return b.String()
	}
	fmt.Fprintf(&b, " The last daily bar moved %+.2f%% (%s)", signal.DailyChangePct, strings.ToLower(signal.Trend))
	switch {
	case tf.Sentiment == signal.Trend && tf.Sentiment != Neutral:
		b.WriteString(", which agrees with this timeframe.")
	case tf.Sentiment == Neutral || signal.Trend == Neutral:
		b.WriteString(", giving no clear confirmation.")
	default:
		b.WriteString(", which runs against this timeframe.")
	}
	return b.String()
}

func orNeutral(s string) string {
	if s == "" {
		return Neutral
	}
	return s
}
