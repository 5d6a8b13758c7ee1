package entity

// Message codes are stable machine-readable outcome tags. The set a handler
// may emit is part of that handler's contract; the renderer prompt documents
// the common ones with worked examples.

// Dispatcher codes.
const (
	CodeInvalidEnvelope      = "ERROR_INVALID_ENVELOPE"
	CodeIntentNotImplemented = "ERROR_INTENT_NOT_IMPLEMENTED"
	CodeHandlerPanic         = "ERROR_HANDLER_PANIC"
	CodeDebugEcho            = "DEBUG_ECHO"
)

// manage_app codes.
const (
	CodeAppLaunched            = "APP_LAUNCHED_SUCCESSFULLY"
	CodeAppFocusedWmctrl       = "APP_FOCUSED_EXISTING_WMCTRL"
	CodeAppFocusedXdotool      = "APP_FOCUSED_EXISTING_XDOTOOL"
	CodeAppCloseDone           = "APP_CLOSE_COMMAND_SENT"
	CodeAppCloseNothing        = "APP_CLOSE_NOTHING_RUNNING"
	CodeErrAppParamsMissing    = "ERROR_APP_ACTION_PARAMS_MISSING"
	CodeErrAppUnknownAction    = "ERROR_UNKNOWN_APP_ACTION"
	CodeErrAppNotFoundSystem   = "ERROR_APP_NOT_FOUND_SYSTEM"
	CodeErrAppStartFailed      = "ERROR_APP_START_FAILED"
	CodeErrActivateToolMissing = "ERROR_APP_ACTIVATE_TOOL_MISSING"
	CodeErrActivateNoWindow    = "ERROR_APP_ACTIVATE_NO_WINDOW"
	CodeErrActivateFailed      = "ERROR_APP_ACTIVATE_FAILED"
	CodeErrAppCloseFailed      = "ERROR_APP_CLOSE_FAILED_ACTIVE"
	CodeErrAppCloseDenied      = "ERROR_APP_CLOSE_PERMISSION_DENIED"
)

// manage_system codes.
const (
	CodeSystemShutdownStarted = "SYSTEM_SHUTDOWN_INITIATED"
	CodeSystemRebootStarted   = "SYSTEM_REBOOT_INITIATED"
	CodeSystemUpdateDone      = "SYSTEM_UPDATE_COMPLETED"
	CodeSystemUptime          = "SYSTEM_UPTIME_PROVIDED"
	CodeErrSysParamsMissing   = "ERROR_SYSTEM_ACTION_MISSING"
	CodeErrSysUnknownAction   = "ERROR_UNKNOWN_SYSTEM_ACTION"
	CodeErrSysCommandFailed   = "ERROR_SYSTEM_COMMAND_FAILED"
	CodeErrSysToolMissing     = "ERROR_SYSTEM_TOOL_MISSING"
)

// add_alias codes.
const (
	CodeAliasAdded            = "ALIAS_ADDED_SUCCESS"
	CodeAliasAlreadyExists    = "ALIAS_ALREADY_EXISTS"
	CodeErrAliasParamsMissing = "ERROR_ALIAS_PARAMS_MISSING"
	CodeErrAliasStopWord      = "ERROR_ALIAS_STOP_WORD"
	CodeErrAliasBothCommands  = "ERROR_ALIAS_BOTH_COMMANDS"
	CodeErrAliasNoCommand     = "ERROR_ALIAS_NO_COMMAND"
	CodeErrAliasConflict      = "ERROR_ALIAS_CONFLICT"
	CodeErrAliasSaveFailed    = "ERROR_ALIAS_SAVE_FAILED"
)

// ask_time codes.
const (
	CodeTimeProvided = "CURRENT_TIME_PROVIDED"
)

// Error category tags used in ErrorDetails.Type.
const (
	ErrTypeParameterMissing = "ParameterMissing"
	ErrTypeParameterInvalid = "ParameterInvalid"
	ErrTypeUnknownAction    = "UnknownAction"
	ErrTypeNotFound         = "NotFound"
	ErrTypeStartFailed      = "StartFailed"
	ErrTypeActivationFailed = "ActivationFailed"
	ErrTypeToolMissing      = "ToolMissing"
	ErrTypeCloseFailed      = "CloseFailed"
	ErrTypePermissionDenied = "PermissionDenied"
	ErrTypeCommandFailed    = "CommandFailed"
	ErrTypeConflict         = "Conflict"
	ErrTypeAmbiguous        = "Ambiguous"
	ErrTypePersistence      = "PersistenceFailed"
	ErrTypeUnhandled        = "UnhandledFault"
	ErrTypeNotImplemented   = "NotImplemented"
)
