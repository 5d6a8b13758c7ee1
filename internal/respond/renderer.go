package respond

import (
	"context"
	"encoding/json"
	"strings"

	"familiar/internal/entity"
	"familiar/pkg/log"
	"familiar/pkg/ollama"

	"github.com/sirupsen/logrus"
)

const resultPlaceholder = "{structured_result_json}"

// responseTemplate turns a structured outcome into conversational text. The
// model is told to lean on message_code and data; error_details are stripped
// from the payload before it ever reaches the model.
const responseTemplate = `You will be given the structured result of a user command executed by the assistant "Familiar".
Your task is to generate a natural, friendly and helpful reply to the user in English, based on this data.
You are Familiar, a polite assistant of few words.

Input structure:
{
  "status": "success" | "error",          // operation outcome
  "intent": "intent_name",                // original intent
  "action_performed": "action_name",      // action that was executed
  "message_code": "RESULT_CODE",          // unique outcome code
  "user_message_hint": "hint",            // short hint (may be absent)
  "data": {}                              // data to include in the reply (may be absent)
}

Interpret the message_code and data to compose the reply.
If status is "error", report the problem politely without technical detail.
If user_message_hint is present, it can help you understand the context.

Examples of interpreting message_code and data:

1.  message_code: "APP_LAUNCHED_SUCCESSFULLY", data: {"app_name": "firefox"}
    Reply could be: "Opened Firefox for you." or "Firefox is up."

2.  message_code: "ALIAS_ADDED_SUCCESS", data: {"alias_name": "tg", "command_name": "telegram"}
    Reply: "Got it, 'tg' now means 'telegram'."

3.  message_code: "ERROR_APP_NOT_FOUND_SYSTEM", data: {"app_name": "non_existent_app"}
    Reply: "Sorry, I cannot find an application called 'non_existent_app'. Make sure it is installed and the name is right."

4.  message_code: "SYSTEM_UPTIME_PROVIDED", data: {"uptime_string": "02:45 up 1 day, 3:12"}
    Reply: "The system has been up for 1 day, 3 hours and 12 minutes."

5.  message_code: "SYSTEM_UPDATE_COMPLETED"
    Reply: "The system update finished successfully."

6.  message_code: "SYSTEM_REBOOT_INITIATED"
    Reply: "Alright, rebooting the system now. See you soon!"

7.  message_code: "ERROR_APP_CLOSE_PERMISSION_DENIED", data: {"app_name": "systemd"}
    Reply: "It seems I do not have enough privileges to close 'systemd'."

Go! Here is the structured result:
{structured_result_json}
Your reply:`

// IRenderer turns a structured outcome into the final user-facing sentence.
type IRenderer interface {
	Render(ctx context.Context, outcome entity.Outcome) string
}

type renderer struct {
	completer ollama.Completer
	logger    *logrus.Logger
}

func NewRenderer(completer ollama.Completer, logger *logrus.Logger) IRenderer {
	return &renderer{completer: completer, logger: logger}
}

// Render asks the model for a conversational reply and falls back to the
// outcome's own hint when the model is unavailable. Error details never make
// it into the output on either path.
func (r *renderer) Render(ctx context.Context, outcome entity.Outcome) string {
	payload := outcome
	payload.ErrorDetails = nil

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to serialize outcome for rendering")
		return r.fallback(outcome)
	}

	prompt := strings.ReplaceAll(responseTemplate, resultPlaceholder, string(encoded))

	reply, err := r.completer.Complete(ctx, prompt, ollama.Options{
		Temperature:   0.7,
		RepeatPenalty: 1.1,
		NumPredict:    200,
	})
	if err != nil {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"message_code": outcome.MessageCode,
			"error":        err.Error(),
		}).Warn("Model did not produce a reply, using fallback")
		return r.fallback(outcome)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return r.fallback(outcome)
	}
	return reply
}

func (r *renderer) fallback(outcome entity.Outcome) string {
	if hint := strings.TrimSpace(outcome.UserMessageHint); hint != "" {
		return hint
	}
	if outcome.IsError() {
		return "Something went wrong while executing the command."
	}
	return "Done."
}
