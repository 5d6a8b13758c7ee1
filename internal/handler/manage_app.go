package handler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"familiar/internal/alias"
	"familiar/internal/capability"
	"familiar/internal/entity"
	"familiar/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const closeGracePeriod = 3 * time.Second

type manageAppParams struct {
	Action  string `validate:"required,oneof=open close"`
	AppName string `validate:"required"`
}

// ManageApp launches, focuses or closes applications.
type ManageApp struct {
	procs    capability.ProcessManager
	windows  capability.WindowActivator
	lookPath capability.LookPathFunc
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewManageApp(procs capability.ProcessManager, windows capability.WindowActivator, validate *validator.Validate, logger *logrus.Logger) *ManageApp {
	return &ManageApp{
		procs:    procs,
		windows:  windows,
		lookPath: exec.LookPath,
		validate: validate,
		logger:   logger,
	}
}

func (h *ManageApp) Intent() string {
	return entity.IntentManageApp
}

func (h *ManageApp) Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome {
	p := manageAppParams{
		Action:  params.Get("action"),
		AppName: params.Get("app_name"),
	}

	if err := h.validate.Struct(p); err != nil {
		if isOneOfViolation(err) {
			return entity.ErrorOutcome(entity.IntentManageApp, p.Action,
				entity.CodeErrAppUnknownAction,
				fmt.Sprintf("Unknown action '%s' for application '%s'", p.Action, p.AppName),
				map[string]string{"app_name": p.AppName},
				entity.ErrTypeUnknownAction,
				fmt.Sprintf("action %q is not defined for manage_app", p.Action))
		}
		return entity.ErrorOutcome(entity.IntentManageApp, orUnknown(p.Action),
			entity.CodeErrAppParamsMissing,
			"The action or the application name is missing",
			map[string]string{"app_name": p.AppName},
			entity.ErrTypeParameterMissing,
			"action or app_name parameter is missing")
	}

	canonical := store.Resolve(p.AppName)
	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"action":       p.Action,
		"app_name_raw": p.AppName,
		"canonical":    canonical,
	}).Info("Handling manage_app")

	data := map[string]string{
		"app_name":     canonical,
		"app_name_raw": p.AppName,
	}

	switch p.Action {
	case "open":
		return h.open(ctx, canonical, data)
	case "close":
		return h.close(ctx, canonical, data)
	}

	// Unreachable after validation; kept so every path returns the contract.
	return entity.ErrorOutcome(entity.IntentManageApp, p.Action,
		entity.CodeErrAppUnknownAction,
		fmt.Sprintf("Unknown action '%s' for application '%s'", p.Action, canonical),
		data, entity.ErrTypeUnknownAction, "unreachable action branch")
}

func (h *ManageApp) open(ctx context.Context, canonical string, data map[string]string) entity.Outcome {
	pid, running := h.procs.FindRunning(canonical)

	if running {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"app": canonical,
			"pid": pid,
		}).Info("Application already running, activating window")

		ok, code := h.windows.Activate(canonical, pid)
		data["activation_code"] = string(code)

		if ok {
			messageCode := entity.CodeAppFocusedWmctrl
			if code == capability.XdotoolActivated {
				messageCode = entity.CodeAppFocusedXdotool
			}
			return entity.SuccessOutcome(entity.IntentManageApp, "open", messageCode,
				fmt.Sprintf("Window of '%s' activated", canonical), data)
		}

		switch code {
		case capability.XdotoolMissing:
			return entity.ErrorOutcome(entity.IntentManageApp, "open",
				entity.CodeErrActivateToolMissing,
				fmt.Sprintf("Could not activate '%s': xdotool is not installed", canonical),
				data, entity.ErrTypeToolMissing, "xdotool not found in PATH")
		case capability.XdotoolNoWindow:
			return entity.ErrorOutcome(entity.IntentManageApp, "open",
				entity.CodeErrActivateNoWindow,
				fmt.Sprintf("'%s' is running but no window was found for it", canonical),
				data, entity.ErrTypeActivationFailed, fmt.Sprintf("no window found for pid %d", pid))
		default:
			return entity.ErrorOutcome(entity.IntentManageApp, "open",
				entity.CodeErrActivateFailed,
				fmt.Sprintf("'%s' is running but its window could not be activated", canonical),
				data, entity.ErrTypeActivationFailed, fmt.Sprintf("activation failed with code %s", code))
		}
	}

	executable, err := h.lookPath(canonical)
	if err != nil {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"app": canonical,
		}).Warn("Executable not found in PATH")
		return entity.ErrorOutcome(entity.IntentManageApp, "open",
			entity.CodeErrAppNotFoundSystem,
			fmt.Sprintf("Application '%s' was not found on this system", canonical),
			data, entity.ErrTypeNotFound, fmt.Sprintf("no executable for %q in PATH", canonical))
	}

	data["executable"] = executable
	if err := h.procs.Launch(executable); err != nil {
		return entity.ErrorOutcome(entity.IntentManageApp, "open",
			entity.CodeErrAppStartFailed,
			fmt.Sprintf("Could not start '%s'", canonical),
			data, entity.ErrTypeStartFailed, err.Error())
	}

	return entity.SuccessOutcome(entity.IntentManageApp, "open",
		entity.CodeAppLaunched,
		fmt.Sprintf("Application '%s' launched", canonical), data)
}

func (h *ManageApp) close(ctx context.Context, canonical string, data map[string]string) entity.Outcome {
	pid, running := h.procs.FindRunning(canonical)
	if !running {
		// Nothing to close is not an error: the desired state holds.
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"app": canonical,
		}).Info("No running process found, close is a no-op")
		return entity.SuccessOutcome(entity.IntentManageApp, "close",
			entity.CodeAppCloseNothing,
			fmt.Sprintf("'%s' was not running", canonical), data)
	}

	result := h.procs.Terminate(ctx, pid, closeGracePeriod)
	data["pid"] = fmt.Sprintf("%d", pid)

	switch result {
	case capability.TerminatedGracefully:
		data["method"] = "graceful"
		return entity.SuccessOutcome(entity.IntentManageApp, "close",
			entity.CodeAppCloseDone,
			fmt.Sprintf("'%s' closed", canonical), data)
	case capability.TerminatedForcefully:
		data["method"] = "forced"
		return entity.SuccessOutcome(entity.IntentManageApp, "close",
			entity.CodeAppCloseDone,
			fmt.Sprintf("'%s' had to be closed forcefully", canonical), data)
	case capability.TerminateDenied:
		return entity.ErrorOutcome(entity.IntentManageApp, "close",
			entity.CodeErrAppCloseDenied,
			fmt.Sprintf("Not allowed to close '%s'", canonical),
			data, entity.ErrTypePermissionDenied, fmt.Sprintf("no permission to signal pid %d", pid))
	default:
		return entity.ErrorOutcome(entity.IntentManageApp, "close",
			entity.CodeErrAppCloseFailed,
			fmt.Sprintf("Could not close '%s'", canonical),
			data, entity.ErrTypeCloseFailed, fmt.Sprintf("pid %d survived SIGKILL", pid))
	}
}

func orUnknown(action string) string {
	if action == "" {
		return "unknown"
	}
	return action
}

func isOneOfViolation(err error) bool {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return false
	}
	for _, fe := range fieldErrors {
		if fe.Tag() == "oneof" {
			return true
		}
	}
	return false
}
