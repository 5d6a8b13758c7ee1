package capability

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

type commandRunner struct {
	log      *logrus.Logger
	lookPath LookPathFunc
}

func NewCommandRunner(log *logrus.Logger) CommandRunner {
	return &commandRunner{log: log, lookPath: exec.LookPath}
}

func (r *commandRunner) Run(ctx context.Context, spec CommandSpec) (bool, string, error) {
	if spec.Shell != "" {
		return r.runShell(ctx, spec)
	}
	if len(spec.Argv) == 0 {
		return false, "", fmt.Errorf("capability: empty command spec")
	}

	// The binary behind sudo is what has to exist on this machine.
	probe := spec.Argv[0]
	if probe == "sudo" && len(spec.Argv) > 1 {
		probe = spec.Argv[1]
	}
	if _, err := r.lookPath(probe); err != nil {
		r.log.WithFields(logrus.Fields{"command": probe}).Error("System command not found")
		return false, "", fmt.Errorf("%w: %s", ErrToolNotFound, probe)
	}

	commandStr := strings.Join(spec.Argv, " ")
	r.log.WithFields(logrus.Fields{
		"command": commandStr,
		"capture": spec.Capture,
	}).Info("Executing system command")

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Env = append(os.Environ(), spec.Env...)

	if spec.Capture {
		out, err := cmd.CombinedOutput()
		output := strings.TrimSpace(string(out))
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"command": commandStr,
				"output":  output,
				"error":   err.Error(),
			}).Error("System command failed")
			return false, output, nil
		}
		return true, output, nil
	}

	if err := cmd.Run(); err != nil {
		r.log.WithFields(logrus.Fields{
			"command": commandStr,
			"error":   err.Error(),
		}).Error("System command failed")
		return false, err.Error(), nil
	}
	return true, "", nil
}

// runShell executes a compound command line via sh -c. Used for the update
// pipeline, which chains several apt invocations and is reported as one
// atomic operation.
func (r *commandRunner) runShell(ctx context.Context, spec CommandSpec) (bool, string, error) {
	first := strings.Fields(spec.Shell)
	if len(first) > 0 {
		probe := first[0]
		if probe == "sudo" && len(first) > 1 {
			probe = first[1]
		}
		if _, err := r.lookPath(probe); err != nil {
			r.log.WithFields(logrus.Fields{"command": probe}).Error("System command not found")
			return false, "", fmt.Errorf("%w: %s", ErrToolNotFound, probe)
		}
	}

	r.log.WithFields(logrus.Fields{"command": spec.Shell}).Info("Executing compound system command")

	cmd := exec.CommandContext(ctx, "sh", "-c", spec.Shell)
	cmd.Env = append(os.Environ(), spec.Env...)

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"command": spec.Shell,
			"error":   err.Error(),
		}).Error("Compound system command failed")
		if output == "" {
			output = err.Error()
		}
		return false, output, nil
	}
	return true, output, nil
}
