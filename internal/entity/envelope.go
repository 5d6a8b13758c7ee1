package entity

import (
	"encoding/json"
	"strconv"
)

// Recognized intents. The NLU model is instructed to emit exactly one of
// these; anything else is routed as unknown.
const (
	IntentManageApp    = "manage_app"
	IntentManageSystem = "manage_system"
	IntentManageSound  = "manage_sound"
	IntentAddAlias     = "add_alias"
	IntentAskTime      = "ask_time"
	IntentWebSearch    = "web_search"
	IntentSetReminder  = "set_reminder"
	IntentSetAlarm     = "set_alarm"
	IntentUnknown      = "unknown"
)

// Envelope is the validated NLU output: one intent plus its string parameters.
type Envelope struct {
	Intent     string     `json:"intent"`
	Parameters Parameters `json:"parameters"`
}

// Parameters is a string-to-string parameter map. The model occasionally
// emits numbers or booleans where a string was requested ("amount": 20), so
// unmarshalling coerces scalar values instead of failing the whole envelope.
type Parameters map[string]string

func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Parameters, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[key] = s
			continue
		}

		var f float64
		if err := json.Unmarshal(value, &f); err == nil {
			out[key] = strconv.FormatFloat(f, 'f', -1, 64)
			continue
		}

		var b bool
		if err := json.Unmarshal(value, &b); err == nil {
			out[key] = strconv.FormatBool(b)
			continue
		}

		// Nested objects/arrays are never part of the schema; drop them.
	}

	*p = out
	return nil
}

func (p Parameters) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}
