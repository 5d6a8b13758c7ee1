package entity

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorDetails carries the machine classification of a failure. Message is
// diagnostic only and must never be shown verbatim to the end user.
type ErrorDetails struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Outcome is the uniform result record every intent handler returns. The
// dispatcher, the response renderer and both front-ends consume only this
// shape, nothing handler-specific.
type Outcome struct {
	Status          string            `json:"status"`
	Intent          string            `json:"intent"`
	ActionPerformed string            `json:"action_performed"`
	MessageCode     string            `json:"message_code"`
	UserMessageHint string            `json:"user_message_hint"`
	Data            map[string]string `json:"data"`
	ErrorDetails    *ErrorDetails     `json:"error_details,omitempty"`
}

func (o Outcome) IsError() bool {
	return o.Status == StatusError
}

// SuccessOutcome builds a success record. Data may be nil.
func SuccessOutcome(intent, action, code, hint string, data map[string]string) Outcome {
	if data == nil {
		data = map[string]string{}
	}
	return Outcome{
		Status:          StatusSuccess,
		Intent:          intent,
		ActionPerformed: action,
		MessageCode:     code,
		UserMessageHint: hint,
		Data:            data,
	}
}

// ErrorOutcome builds an error record with its classification attached.
func ErrorOutcome(intent, action, code, hint string, data map[string]string, errType, errMessage string) Outcome {
	if data == nil {
		data = map[string]string{}
	}
	return Outcome{
		Status:          StatusError,
		Intent:          intent,
		ActionPerformed: action,
		MessageCode:     code,
		UserMessageHint: hint,
		Data:            data,
		ErrorDetails: &ErrorDetails{
			Type:    errType,
			Message: errMessage,
		},
	}
}
