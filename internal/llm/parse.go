package llm

import (
	"encoding/json"
	"strings"
)

// ParseReasoning extracts per-timeframe prose from a model reply. It accepts
// a JSON object keyed by timeframe (optionally inside a ```json fence) or a
// list of {"timeframe","reasoning"} objects. Anything else yields nil.
func ParseReasoning(raw string) map[string]string {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return nil
	}
	var byKey map[string]any
	if err := json.Unmarshal([]byte(body), &byKey); err == nil {
		out := map[string]string{}
		for k, v := range byKey {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	var list []struct {
		Timeframe string `json:"timeframe"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(body), &list); err == nil {
		out := map[string]string{}
		for _, it := range list {
			tf := strings.ToUpper(strings.TrimSpace(it.Timeframe))
			if tf != "" && strings.TrimSpace(it.Reasoning) != "" {
				out[tf] = strings.TrimSpace(it.Reasoning)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
