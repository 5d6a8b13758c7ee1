package capability

import (
	"context"
	"errors"
	"time"
)

// The capability layer wraps the OS-level primitives the handlers depend on:
// process lifecycle, window activation and privileged system commands.
// Handlers only see these interfaces; tests substitute fakes.

// TerminateResult reports how far the two-phase close protocol got.
type TerminateResult int

const (
	// TerminatedGracefully: the process exited within the grace period.
	TerminatedGracefully TerminateResult = iota
	// TerminatedForcefully: SIGKILL was required and succeeded.
	TerminatedForcefully
	// TerminateSurvived: the process is still alive after SIGKILL.
	TerminateSurvived
	// TerminateDenied: the caller lacks permission to signal the process.
	TerminateDenied
)

// ActivationCode says which activation phase ran and how it ended.
type ActivationCode string

const (
	WmctrlActivated  ActivationCode = "WMCTRL_ACTIVATED"
	XdotoolActivated ActivationCode = "XDOTOOL_ACTIVATED_FROM_PID"
	XdotoolMissing   ActivationCode = "XDOTOOL_NOT_FOUND"
	XdotoolNoWindow  ActivationCode = "XDOTOOL_WINDOW_NOT_FOUND_BY_PID"
	XdotoolFailed    ActivationCode = "XDOTOOL_ACTIVATE_FAILED"
)

// ErrToolNotFound marks an external tool missing from PATH, a condition the
// operator can act on, as opposed to the tool running and failing.
var ErrToolNotFound = errors.New("capability: external tool not found")

// ProcessManager handles process lookup, detached launch and two-phase
// termination.
type ProcessManager interface {
	// FindRunning matches by process display name, command-line parts or
	// resolved executable path, case-insensitive over plausible name
	// variants. Returns the first matching pid.
	FindRunning(name string) (int32, bool)

	// Launch starts the executable detached from our process group; the
	// child outlives the assistant and is never tracked afterwards.
	Launch(executable string) error

	// Terminate runs graceful termination with the given grace period,
	// escalating to SIGKILL on timeout.
	Terminate(ctx context.Context, pid int32, grace time.Duration) TerminateResult
}

// WindowActivator brings an application window to the foreground: name-based
// activation first, pid-based as fallback.
type WindowActivator interface {
	Activate(name string, pid int32) (bool, ActivationCode)
}

// CommandSpec describes one external system command invocation.
type CommandSpec struct {
	// Argv is the command and its arguments; ignored when Shell is set.
	Argv []string
	// Shell, when non-empty, is a compound command line run via sh -c
	// (needed for the multi-step update pipeline).
	Shell string
	// Capture controls whether stdout is collected and returned.
	Capture bool
	// Env entries are appended to the inherited environment.
	Env []string
}

// CommandRunner executes privileged or informational system commands.
// A missing tool is reported via ErrToolNotFound; any other err means the
// invocation itself could not run. ok reflects the exit status, and output
// holds captured stdout on success or a diagnostic on failure.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (ok bool, output string, err error)
}

// LookPathFunc resolves a command name to an executable path; exec.LookPath
// in production, a table lookup in tests.
type LookPathFunc func(name string) (string, error)
