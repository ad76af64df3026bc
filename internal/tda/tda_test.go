package tda

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMajorityVote(t *testing.T) {
	cases := []struct {
		votes []string
		want  string
	}{
		{nil, Neutral},
		{[]string{Bullish, Bullish, Bearish}, Bullish},
		{[]string{Bearish, Neutral, Neutral}, Bearish},
		{[]string{Bullish, Bearish}, Neutral},
	}
	for _, tc := range cases {
		if got := MajorityVote(tc.votes); got != tc.want {
			t.Fatalf("MajorityVote(%v)=%s want %s", tc.votes, got, tc.want)
		}
	}
}

func TestDirection(t *testing.T) {
	cases := []struct {
		v    AnswerValue
		want string
	}{
		{ChoiceAnswer{Choice: "Bullish"}, Bullish},
		{TextAnswer{Text: "price is making lower lows, looking to short"}, Bearish},
		{TextAnswer{Text: "range bound"}, ""},
		{RatingAnswer{Rating: 5}, ""},
		{BooleanAnswer{Value: true}, ""},
	}
	for _, tc := range cases {
		if got := Direction(tc.v); got != tc.want {
			t.Fatalf("Direction(%#v)=%q want %q", tc.v, got, tc.want)
		}
	}
}

func TestParseAnswer_ValidatesAgainstType(t *testing.T) {
	choice := QuestionSpec{Type: KindChoice, Options: []string{"Bullish", "Bearish"}}
	if _, err := ParseAnswer(choice, json.RawMessage(`"Sideways"`)); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("err=%v want ErrInvalidAnswer", err)
	}
	v, err := ParseAnswer(choice, json.RawMessage(`"bearish"`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if v.Kind() != KindChoice {
		t.Fatalf("kind=%s", v.Kind())
	}
	if _, err := ParseAnswer(QuestionSpec{Type: KindRating}, json.RawMessage(`7`)); err == nil {
		t.Fatalf("expected out-of-range rating error")
	}
	if _, err := ParseAnswer(QuestionSpec{Type: KindRating}, json.RawMessage(`2.5`)); err == nil {
		t.Fatalf("expected non-integer rating error")
	}
	if _, err := ParseAnswer(QuestionSpec{Type: KindBoolean}, json.RawMessage(`"yes"`)); err == nil {
		t.Fatalf("expected boolean type error")
	}
	if _, err := ParseAnswer(QuestionSpec{Type: KindText}, nil); err == nil {
		t.Fatalf("expected missing value error")
	}
}

func TestEncodeDecodeAnswer(t *testing.T) {
	in := AnnouncementsAnswer{Items: []string{"NFP", "CPI"}}
	raw, err := EncodeAnswer(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeAnswer(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := out.(AnnouncementsAnswer)
	if !ok || len(got.Items) != 2 || got.Items[1] != "CPI" {
		t.Fatalf("decoded=%#v", out)
	}
	if _, err := DecodeAnswer([]byte(`{"kind":"COLOR","value":{}}`)); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestAlignmentScore(t *testing.T) {
	if got := AlignmentScore(nil, Bullish); got != 0.5 {
		t.Fatalf("empty=%v want 0.5", got)
	}
	// Majority agrees: 3 of 4 bullish, floor of 0.7 does not bind.
	if got := AlignmentScore([]string{Bullish, Bullish, Bullish, Bearish}, Bullish); got != 0.75 {
		t.Fatalf("agree=%v want 0.75", got)
	}
	// Majority agrees at a low ratio: floored to 0.7.
	if got := AlignmentScore([]string{Bullish, Bullish, Bearish, Neutral, Neutral}, Bullish); got != 0.7 {
		t.Fatalf("agree low=%v want 0.7", got)
	}
	// Majority disagrees: min(0.3, 1/4).
	if got := AlignmentScore([]string{Bullish, Bullish, Bullish, Bearish}, Bearish); got != 0.25 {
		t.Fatalf("disagree=%v want 0.25", got)
	}
}

func TestEnhance_NoMarketDataKeepsBaseline(t *testing.T) {
	base := Baseline{Probability: 62, Confidence: 41, RiskLevel: RiskMedium, Recommendation: RecommendAvoid}
	m := Enhance(base, []string{Bullish, Bullish}, nil)
	if m.MarketApplied {
		t.Fatalf("market applied without signal")
	}
	if m.Probability != 62 || m.Confidence != 41 || m.RiskLevel != RiskMedium || m.Recommendation != RecommendAvoid {
		t.Fatalf("metrics changed: %+v", m)
	}
	if m.AlignmentScore != 0.5 {
		t.Fatalf("alignment=%v want 0.5", m.AlignmentScore)
	}
}

func TestEnhance_AdjustsAndClamps(t *testing.T) {
	// +2.5% day: bullish trend, high volatility.
	sig := NewMarketSignal(1.0, 1.03, 0.99, 1.025)
	if sig.Trend != Bullish {
		t.Fatalf("trend=%s", sig.Trend)
	}
	m := Enhance(Baseline{Probability: 95, Confidence: 10}, []string{Bullish, Bullish, Bullish}, &sig)
	if m.Probability != 100 {
		t.Fatalf("probability=%v want 100 (clamped)", m.Probability)
	}
	if m.Confidence != 0 || m.RiskLevel != RiskHigh {
		t.Fatalf("confidence=%v risk=%s want 0/HIGH", m.Confidence, m.RiskLevel)
	}
	if m.Recommendation != RecommendLong {
		t.Fatalf("recommendation=%s", m.Recommendation)
	}

	// -0.2% day: bearish trend, low volatility, timeframes disagree.
	calm := NewMarketSignal(100, 100.1, 99.7, 99.8)
	m = Enhance(Baseline{Probability: 5, Confidence: 50}, []string{Bullish, Bullish}, &calm)
	if m.Probability != 0 {
		t.Fatalf("probability=%v want 0 (floored)", m.Probability)
	}
	if m.Confidence != 60 || m.RiskLevel != RiskLow {
		t.Fatalf("confidence=%v risk=%s want 60/LOW", m.Confidence, m.RiskLevel)
	}

	// Middle band leaves probability and confidence alone.
	mid := NewMarketSignal(100, 101, 99, 101)
	m = Enhance(Baseline{Probability: 50, Confidence: 50}, []string{Bullish, Bearish}, &mid)
	if m.Probability != 50 || m.Confidence != 50 {
		t.Fatalf("mid band changed metrics: %+v", m)
	}
}

func TestTemplateReasoning(t *testing.T) {
	tf := TimeframeInput{Timeframe: "H4", Sentiment: Bullish, Probability: 60, Strength: 55}
	got := TemplateReasoning("EURUSD", tf, nil)
	if got == "" {
		t.Fatalf("empty reasoning")
	}
	sig := NewMarketSignal(1, 1, 1, 1.01)
	if got := TemplateReasoning("EURUSD", tf, &sig); got == "" {
		t.Fatalf("empty reasoning with signal")
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	if v, ok := NormalizeTimeframe(" h4 "); !ok || v != "H4" {
		t.Fatalf("got %q %v", v, ok)
	}
	if _, ok := NormalizeTimeframe("H2"); ok {
		t.Fatalf("H2 accepted")
	}
	if TimeframeRank("MN1") >= TimeframeRank("M10") {
		t.Fatalf("rank order broken")
	}
}

func TestRecommendation(t *testing.T) {
	cases := map[string]string{Bullish: RecommendLong, Bearish: RecommendShort, Neutral: RecommendNeutral, "": RecommendNeutral}
	for majority, want := range cases {
		if got := Recommendation(majority); got != want {
			t.Fatalf("Recommendation(%q)=%s want %s", majority, got, want)
		}
	}
	for _, in := range []string{"long", " SHORT ", "Neutral", "avoid", ""} {
		if _, ok := NormalizeRecommendation(in); !ok {
			t.Fatalf("%q rejected", in)
		}
	}
	for _, in := range []string{"BUY", "SELL", "WAIT"} {
		if _, ok := NormalizeRecommendation(in); ok {
			t.Fatalf("%q accepted", in)
		}
	}
}
