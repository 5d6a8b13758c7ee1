package nlu

import "strings"

const commandPlaceholder = "{user_command}"

// instructionTemplate is the few-shot NLU prompt. It enumerates the full
// intent/action/parameter schema and ends with the user's command; the model
// is asked for a bare JSON object and nothing else.
const instructionTemplate = `You will be given a user command. Your task is to extract the main intent and its parameters, including the specific action where applicable, and return the result ONLY as a clean JSON object.

Possible intents and actions:

* intent: manage_app
    * action: "open" (launch or focus an application)
    * action: "close" (close an application)
    * Required parameter: "app_name".
* intent: manage_system
    * action: "reboot" (restart the machine)
    * action: "update" (update the system)
    * action: "shutdown" (power off)
    * action: "uptime" (how long the system has been running)
* intent: manage_sound
    * action: "up" (louder)
    * action: "down" (quieter)
    * action: "mute" / "unmute"
    * Optional parameter: "amount".
* intent: add_alias
    * Parameters: "entity1", "entity2" (the two names to link; one of them is an installed command).
* intent: ask_time
    * No parameters.
* intent: web_search
    * Required parameter: "query".
* intent: set_reminder
    * Parameters: "reminder_text", "time_spec".
* intent: set_alarm
    * Parameter: "time_spec".
* intent: unknown
    * The intent could not be recognized.

Examples:

Command: launch steam
Result:
{"intent": "manage_app", "parameters": {"action": "open", "app_name": "Steam"}}

Command: open telegram for me
Result:
{"intent": "manage_app", "parameters": {"action": "open", "app_name": "Telegram"}}

Command: close chrome
Result:
{"intent": "manage_app", "parameters": {"action": "close", "app_name": "Chrome"}}

Command: kill the firefox process
Result:
{"intent": "manage_app", "parameters": {"action": "close", "app_name": "Firefox"}}

Command: remember that tg means telegram
Result:
{"intent": "add_alias", "parameters": {"entity1": "tg", "entity2": "telegram"}}

Command: link browser and google-chrome
Result:
{"intent": "add_alias", "parameters": {"entity1": "browser", "entity2": "google-chrome"}}

Command: turn the volume up
Result:
{"intent": "manage_sound", "parameters": {"action": "up"}}

Command: volume down by 20 percent
Result:
{"intent": "manage_sound", "parameters": {"action": "down", "amount": "20%"}}

Command: mute the sound
Result:
{"intent": "manage_sound", "parameters": {"action": "mute"}}

Command: what time is it?
Result:
{"intent": "ask_time", "parameters": {}}

Command: reboot
Result:
{"intent": "manage_system", "parameters": {"action": "reboot"}}

Command: shut down the computer
Result:
{"intent": "manage_system", "parameters": {"action": "shutdown"}}

Command: run a system update
Result:
{"intent": "manage_system", "parameters": {"action": "update"}}

Command: how long has the machine been up?
Result:
{"intent": "manage_system", "parameters": {"action": "uptime"}}

Command: search how to make pizza
Result:
{"intent": "web_search", "parameters": {"query": "how to make pizza"}}

Command: remind me to take out the trash tonight
Result:
{"intent": "set_reminder", "parameters": {"reminder_text": "take out the trash", "time_spec": "tonight"}}

Command: alarm for 7 am
Result:
{"intent": "set_alarm", "parameters": {"time_spec": "7 am"}}

Command: what's the weather like?
Result:
{"intent": "unknown", "parameters": {}}

Command: ` + commandPlaceholder + `
Result:
`

// BuildPrompt embeds the utterance verbatim, unescaped, in the template's
// command slot.
func BuildPrompt(utterance string) string {
	return strings.ReplaceAll(instructionTemplate, commandPlaceholder, utterance)
}
