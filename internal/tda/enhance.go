package tda

import (
	"math"
	"strings"
)

const (
	DefaultScore = 50.0

	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"

	RecommendLong    = "LONG"
	RecommendShort   = "SHORT"
	RecommendNeutral = "NEUTRAL"
	RecommendAvoid   = "AVOID"
)

// MarketSignal is the external daily bar reduced to what the aggregation uses.
type MarketSignal struct {
	Open           float64 `json:"open"`
	Close          float64 `json:"close"`
	High           float64 `json:"high"`
	Low            float64 `json:"low"`
	DailyChangePct float64 `json:"daily_change_pct"`
	Trend          string  `json:"trend"`
}

// NewMarketSignal derives the daily change and trend from an open/close pair.
func NewMarketSignal(open, high, low, close float64) MarketSignal {
	s := MarketSignal{Open: open, High: high, Low: low, Close: close, Trend: Neutral}
	if open != 0 {
		s.DailyChangePct = (close - open) / open * 100
	}
	switch {
	case s.DailyChangePct > 0:
		s.Trend = Bullish
	case s.DailyChangePct < 0:
		s.Trend = Bearish
	}
	return s
}

// Baseline is the stored analysis an enhance run starts from.
type Baseline struct {
	Probability    float64
	Confidence     float64
	RiskLevel      string
	Recommendation string
}

type Metrics struct {
	Probability       float64       `json:"overall_probability"`
	Confidence        float64       `json:"confidence_level"`
	RiskLevel         string        `json:"risk_level"`
	Recommendation    string        `json:"trade_recommendation"`
	MajoritySentiment string        `json:"majority_sentiment"`
	AgreementFraction float64       `json:"agreement_fraction"`
	AlignmentScore    float64       `json:"market_alignment_score"`
	MarketApplied     bool          `json:"market_applied"`
	Market            *MarketSignal `json:"market,omitempty"`
}

// Enhance applies the market-data adjustments to the stored baseline.
// With no signal the baseline is returned unchanged.
func Enhance(base Baseline, sentiments []string, signal *MarketSignal) Metrics {
	majority := MajorityVote(sentiments)
	m := Metrics{
		Probability:       Clamp(base.Probability),
		Confidence:        Clamp(base.Confidence),
		RiskLevel:         base.RiskLevel,
		Recommendation:    base.Recommendation,
		MajoritySentiment: majority,
		AlignmentScore:    0.5,
	}
	if signal == nil {
		return m
	}
	m.MarketApplied = true
	m.Recommendation = Recommendation(majority)
	sig := *signal
	m.Market = &sig

	if len(sentiments) > 0 {
		agree := 0
		for _, s := range sentiments {
			if s == signal.Trend {
				agree++
			}
		}
		m.AgreementFraction = float64(agree) / float64(len(sentiments))
		switch {
		case m.AgreementFraction > 0.7:
			m.Probability = Clamp(m.Probability + 10)
		case m.AgreementFraction < 0.3:
			m.Probability = Clamp(m.Probability - 10)
		}
	}

	vol := math.Abs(signal.DailyChangePct)
	switch {
	case vol > 2:
		m.Confidence = Clamp(m.Confidence - 15)
		m.RiskLevel = RiskHigh
	case vol < 0.5:
		m.Confidence = Clamp(m.Confidence + 10)
		m.RiskLevel = RiskLow
	}

	m.AlignmentScore = AlignmentScore(sentiments, signal.Trend)
	return m
}

// AlignmentScore is max(0.7, majority/total) when the majority agrees with
// the external trend and min(0.3, minority/total) otherwise. Zero
// timeframes score 0.5.
func AlignmentScore(sentiments []string, trend string) float64 {
	total := len(sentiments)
	if total == 0 {
		return 0.5
	}
	majority := MajorityVote(sentiments)
	majorityCount := 0
	for _, s := range sentiments {
		if s == majority {
			majorityCount++
		}
	}
	if majority == trend {
		return math.Max(0.7, float64(majorityCount)/float64(total))
	}
	minorityCount := total - majorityCount
	return math.Min(0.3, float64(minorityCount)/float64(total))
}

// Recommendation maps the majority sentiment onto a trade direction.
func Recommendation(majority string) string {
	switch majority {
	case Bullish:
		return RecommendLong
	case Bearish:
		return RecommendShort
	default:
		return RecommendNeutral
	}
}

// NormalizeRecommendation upper-cases rec and reports whether it is a known
// recommendation. The empty string is accepted and clears the field.
func NormalizeRecommendation(rec string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(rec))
	switch v {
	case "", RecommendLong, RecommendShort, RecommendNeutral, RecommendAvoid:
		return v, true
	}
	return v, false
}

// Clamp bounds a score to [0, 100].
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
