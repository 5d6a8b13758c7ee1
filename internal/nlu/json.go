package nlu

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first balanced-looking JSON object span out of model
// output: first '{' to last '}'. Models routinely wrap valid JSON in prose,
// so leading and trailing chatter is tolerated; interleaved braces are not.
// Returns "" when no such span exists.
func ExtractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return trimmed[start : end+1]
}

// ParseObject strictly parses the extracted span and requires the given
// top-level key to be present. The same lenient scraper serves two logical
// uses: command envelopes (key "intent") and renderer replies.
func ParseObject(raw, requiredKey string) (map[string]json.RawMessage, bool) {
	span := ExtractJSON(raw)
	if span == "" {
		return nil, false
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, false
	}

	if _, ok := parsed[requiredKey]; !ok {
		return nil, false
	}
	return parsed, true
}
