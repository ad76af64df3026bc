package llm

import (
	"context"
	"errors"
	"testing"

	"tradejournal/internal/config"
)

func TestParseReasoning(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"object", `{"h4":"Higher highs.","D1":"Range."}`, map[string]string{"H4": "Higher highs.", "D1": "Range."}},
		{"fenced", "```json\n{\"W1\":\"Uptrend intact.\"}\n```", map[string]string{"W1": "Uptrend intact."}},
		{"list", `[{"timeframe":"m15","reasoning":"Pullback."}]`, map[string]string{"M15": "Pullback."}},
		{"prose", "The market looks bullish overall.", nil},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		got := ParseReasoning(tc.raw)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Fatalf("%s: got[%s]=%q want %q", tc.name, k, got[k], v)
			}
		}
	}
}

func TestComplete_DisabledWithoutKey(t *testing.T) {
	c := New(config.LLMConfig{})
	if c.Enabled() {
		t.Fatalf("enabled without key")
	}
	if _, err := c.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err=%v want ErrDisabled", err)
	}
}
