package tda

import "strings"

const (
	Bullish = "BULLISH"
	Bearish = "BEARISH"
	Neutral = "NEUTRAL"
)

var (
	bullishWords = wordSet("bull", "bulls", "bullish", "up", "uptrend", "upside", "long", "buy", "higher", "rising")
	bearishWords = wordSet("bear", "bears", "bearish", "down", "downtrend", "downside", "short", "sell", "lower", "falling")
)

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// Direction classifies a directional answer. Only text and choice answers
// carry direction; everything else returns "".
func Direction(v AnswerValue) string {
	var text string
	switch a := v.(type) {
	case TextAnswer:
		text = a.Text
	case ChoiceAnswer:
		text = a.Choice
	default:
		return ""
	}
	return classifyText(text)
}

func classifyText(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	var bull, bear int
	for _, w := range words {
		if _, ok := bullishWords[w]; ok {
			bull++
		}
		if _, ok := bearishWords[w]; ok {
			bear++
		}
	}
	switch {
	case bull > bear:
		return Bullish
	case bear > bull:
		return Bearish
	case bull > 0:
		return Neutral
	default:
		return ""
	}
}

// MajorityVote returns BULLISH or BEARISH by simple majority of votes;
// ties and empty input return NEUTRAL. NEUTRAL votes are ignored.
func MajorityVote(votes []string) string {
	var bull, bear int
	for _, v := range votes {
		switch v {
		case Bullish:
			bull++
		case Bearish:
			bear++
		}
	}
	switch {
	case bull > bear:
		return Bullish
	case bear > bull:
		return Bearish
	default:
		return Neutral
	}
}

func NormalizeSentiment(s string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch v {
	case Bullish, Bearish, Neutral:
		return v, true
	}
	return "", false
}
