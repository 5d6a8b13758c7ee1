package capability

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
)

type processManager struct {
	log *logrus.Logger
}

func NewProcessManager(log *logrus.Logger) ProcessManager {
	return &processManager{log: log}
}

func (m *processManager) FindRunning(name string) (int32, bool) {
	if name == "" {
		return 0, false
	}

	search := strings.ToLower(name)
	base := filepath.Base(search)

	procs, err := process.Processes()
	if err != nil {
		m.log.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to enumerate processes")
		return 0, false
	}

	for _, p := range procs {
		// Per-process info calls fail for processes we cannot inspect;
		// those are skipped, not fatal.
		if pname, err := p.Name(); err == nil && pname != "" {
			if strings.Contains(strings.ToLower(pname), base) {
				m.log.WithFields(logrus.Fields{
					"pid":  p.Pid,
					"name": pname,
				}).Debug("Found running process by name")
				return p.Pid, true
			}
		}

		if cmdline, err := p.CmdlineSlice(); err == nil {
			for _, part := range cmdline {
				if strings.Contains(strings.ToLower(part), search) {
					m.log.WithFields(logrus.Fields{
						"pid":     p.Pid,
						"cmdline": strings.Join(cmdline, " "),
					}).Debug("Found running process by cmdline")
					return p.Pid, true
				}
			}
		}

		if exe, err := p.Exe(); err == nil && exe != "" {
			if strings.Contains(strings.ToLower(exe), search) {
				m.log.WithFields(logrus.Fields{
					"pid": p.Pid,
					"exe": exe,
				}).Debug("Found running process by exe path")
				return p.Pid, true
			}
		}
	}

	return 0, false
}

func (m *processManager) Launch(executable string) error {
	cmd := exec.Command(executable)
	// New session so the child survives the assistant exiting.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		m.log.WithFields(logrus.Fields{
			"executable": executable,
			"error":      err.Error(),
		}).Error("Failed to launch application")
		return err
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		m.log.WithFields(logrus.Fields{
			"executable": executable,
			"error":      err.Error(),
		}).Warn("Failed to release launched process handle")
	}

	m.log.WithFields(logrus.Fields{
		"executable": executable,
		"pid":        pid,
	}).Info("Application launched detached")

	return nil
}

func (m *processManager) Terminate(ctx context.Context, pid int32, grace time.Duration) TerminateResult {
	p, err := process.NewProcess(pid)
	if err != nil {
		// Already gone; nothing to close counts as a clean exit.
		return TerminatedGracefully
	}

	if err := p.Terminate(); err != nil {
		if errors.Is(err, syscall.EPERM) {
			m.log.WithFields(logrus.Fields{"pid": pid}).Error("No permission to terminate process")
			return TerminateDenied
		}
		if errors.Is(err, syscall.ESRCH) {
			return TerminatedGracefully
		}
		m.log.WithFields(logrus.Fields{
			"pid":   pid,
			"error": err.Error(),
		}).Warn("Graceful terminate signal failed, escalating")
	}

	if m.waitForExit(ctx, p, grace) {
		m.log.WithFields(logrus.Fields{"pid": pid}).Info("Process terminated gracefully")
		return TerminatedGracefully
	}

	m.log.WithFields(logrus.Fields{
		"pid":   pid,
		"grace": grace.String(),
	}).Warn("Process survived grace period, sending SIGKILL")

	if err := p.Kill(); err != nil {
		if errors.Is(err, syscall.EPERM) {
			return TerminateDenied
		}
		if errors.Is(err, syscall.ESRCH) {
			return TerminatedForcefully
		}
	}

	if m.waitForExit(ctx, p, time.Second) {
		return TerminatedForcefully
	}

	m.log.WithFields(logrus.Fields{"pid": pid}).Error("Process survived SIGKILL")
	return TerminateSurvived
}

func (m *processManager) waitForExit(ctx context.Context, p *process.Process, wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		running, err := p.IsRunning()
		if err != nil || !running {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
