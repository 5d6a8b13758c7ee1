package handler

import (
	"context"
	"errors"
	"fmt"

	"familiar/internal/alias"
	"familiar/internal/capability"
	"familiar/internal/entity"
	"familiar/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type manageSystemParams struct {
	Action string `validate:"required,oneof=shutdown reboot update uptime"`
}

// ManageSystem runs the privileged and informational system commands.
// Requires passwordless sudo for the shutdown/reboot/update paths.
type ManageSystem struct {
	runner   capability.CommandRunner
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewManageSystem(runner capability.CommandRunner, validate *validator.Validate, logger *logrus.Logger) *ManageSystem {
	return &ManageSystem{
		runner:   runner,
		validate: validate,
		logger:   logger,
	}
}

func (h *ManageSystem) Intent() string {
	return entity.IntentManageSystem
}

func (h *ManageSystem) Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome {
	p := manageSystemParams{Action: params.Get("action")}

	if err := h.validate.Struct(p); err != nil {
		if isOneOfViolation(err) {
			return entity.ErrorOutcome(entity.IntentManageSystem, p.Action,
				entity.CodeErrSysUnknownAction,
				fmt.Sprintf("Unknown system action '%s'", p.Action),
				nil, entity.ErrTypeUnknownAction,
				fmt.Sprintf("action %q is not defined for manage_system", p.Action))
		}
		return entity.ErrorOutcome(entity.IntentManageSystem, "unknown",
			entity.CodeErrSysParamsMissing,
			"No system action was specified",
			nil, entity.ErrTypeParameterMissing, "action parameter is missing")
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"action": p.Action,
	}).Info("Handling manage_system")

	switch p.Action {
	case "shutdown":
		return h.runSimple(ctx, "shutdown", capability.CommandSpec{
			Argv: []string{"sudo", "/sbin/shutdown", "-h", "now"},
		}, entity.CodeSystemShutdownStarted, "System shutdown initiated")
	case "reboot":
		return h.runSimple(ctx, "reboot", capability.CommandSpec{
			Argv: []string{"sudo", "/sbin/reboot", "-f"},
		}, entity.CodeSystemRebootStarted, "System reboot initiated")
	case "update":
		return h.update(ctx)
	case "uptime":
		return h.uptime(ctx)
	}

	return entity.ErrorOutcome(entity.IntentManageSystem, p.Action,
		entity.CodeErrSysUnknownAction,
		fmt.Sprintf("Unknown system action '%s'", p.Action),
		nil, entity.ErrTypeUnknownAction, "unreachable action branch")
}

func (h *ManageSystem) runSimple(ctx context.Context, action string, spec capability.CommandSpec, successCode, successHint string) entity.Outcome {
	ok, output, err := h.runner.Run(ctx, spec)
	if err != nil {
		return h.invocationError(action, err)
	}
	if !ok {
		return entity.ErrorOutcome(entity.IntentManageSystem, action,
			entity.CodeErrSysCommandFailed,
			fmt.Sprintf("Could not initiate %s", action),
			nil, entity.ErrTypeCommandFailed, output)
	}
	return entity.SuccessOutcome(entity.IntentManageSystem, action, successCode, successHint, nil)
}

// update runs the three apt stages as one compound invocation; a failure in
// any stage is reported as a single failure with apt's diagnostic attached.
func (h *ManageSystem) update(ctx context.Context) entity.Outcome {
	ok, output, err := h.runner.Run(ctx, capability.CommandSpec{
		Shell: "sudo apt update && sudo apt upgrade -y && sudo apt dist-upgrade -y",
		Env:   []string{"DEBIAN_FRONTEND=noninteractive"},
	})
	if err != nil {
		return h.invocationError("update", err)
	}
	if !ok {
		return entity.ErrorOutcome(entity.IntentManageSystem, "update",
			entity.CodeErrSysCommandFailed,
			"The system update failed",
			nil, entity.ErrTypeCommandFailed, output)
	}
	return entity.SuccessOutcome(entity.IntentManageSystem, "update",
		entity.CodeSystemUpdateDone, "System update completed", nil)
}

func (h *ManageSystem) uptime(ctx context.Context) entity.Outcome {
	ok, output, err := h.runner.Run(ctx, capability.CommandSpec{
		Argv:    []string{"/usr/bin/uptime"},
		Capture: true,
	})
	if err != nil {
		return h.invocationError("uptime", err)
	}
	if !ok {
		return entity.ErrorOutcome(entity.IntentManageSystem, "uptime",
			entity.CodeErrSysCommandFailed,
			"Could not read the system uptime",
			nil, entity.ErrTypeCommandFailed, output)
	}
	return entity.SuccessOutcome(entity.IntentManageSystem, "uptime",
		entity.CodeSystemUptime, "System uptime retrieved",
		map[string]string{"uptime_string": output})
}

func (h *ManageSystem) invocationError(action string, err error) entity.Outcome {
	if errors.Is(err, capability.ErrToolNotFound) {
		return entity.ErrorOutcome(entity.IntentManageSystem, action,
			entity.CodeErrSysToolMissing,
			fmt.Sprintf("A required system tool for '%s' is not installed", action),
			nil, entity.ErrTypeToolMissing, err.Error())
	}
	return entity.ErrorOutcome(entity.IntentManageSystem, action,
		entity.CodeErrSysCommandFailed,
		fmt.Sprintf("Could not run the '%s' command", action),
		nil, entity.ErrTypeCommandFailed, err.Error())
}
