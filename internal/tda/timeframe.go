package tda

import "strings"

const (
	TimeframeMN1   = "MN1"
	TimeframeW1    = "W1"
	TimeframeD1    = "D1"
	TimeframeDaily = "DAILY"
	TimeframeH4    = "H4"
	TimeframeH1    = "H1"
	TimeframeM30   = "M30"
	TimeframeM15   = "M15"
	TimeframeM10   = "M10"
)

// Timeframes lists every timeframe from the highest to the lowest.
var Timeframes = []string{
	TimeframeMN1,
	TimeframeW1,
	TimeframeD1,
	TimeframeDaily,
	TimeframeH4,
	TimeframeH1,
	TimeframeM30,
	TimeframeM15,
	TimeframeM10,
}

var timeframeRank = func() map[string]int {
	out := make(map[string]int, len(Timeframes))
	for i, tf := range Timeframes {
		out[tf] = i
	}
	return out
}()

// NormalizeTimeframe upper-cases tf and reports whether it is known.
func NormalizeTimeframe(tf string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(tf))
	_, ok := timeframeRank[v]
	return v, ok
}

// TimeframeRank orders timeframes top-down; unknown values sort last.
func TimeframeRank(tf string) int {
	if r, ok := timeframeRank[tf]; ok {
		return r
	}
	return len(Timeframes)
}
