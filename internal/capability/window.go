package capability

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

type windowActivator struct {
	log      *logrus.Logger
	lookPath LookPathFunc
}

func NewWindowActivator(log *logrus.Logger) WindowActivator {
	return &windowActivator{log: log, lookPath: exec.LookPath}
}

// Activate tries wmctrl by window class/name first; when that fails and a
// pid is known, falls back to locating the window through xdotool. Tray and
// background windows are often only reachable through the pid path.
func (w *windowActivator) Activate(name string, pid int32) (bool, ActivationCode) {
	if ok := w.activateByClass(name); ok {
		return true, WmctrlActivated
	}

	if pid <= 0 {
		return false, XdotoolNoWindow
	}

	return w.activateByPid(pid)
}

func (w *windowActivator) activateByClass(name string) bool {
	if _, err := w.lookPath("wmctrl"); err != nil {
		w.log.Warn("wmctrl not found, skipping class-based activation")
		return false
	}

	// Non-zero exit is the expected "no such window" answer, not a fault.
	err := exec.Command("wmctrl", "-xa", name).Run()
	if err == nil {
		w.log.WithFields(logrus.Fields{"name": name}).Info("Window activated via wmctrl")
		return true
	}

	w.log.WithFields(logrus.Fields{"name": name}).Debug("wmctrl could not activate window")
	return false
}

func (w *windowActivator) activateByPid(pid int32) (bool, ActivationCode) {
	if _, err := w.lookPath("xdotool"); err != nil {
		w.log.Error("xdotool not found, cannot activate by pid")
		return false, XdotoolMissing
	}

	out, err := exec.Command("xdotool", "search", "--pid", strconv.Itoa(int(pid))).Output()
	windowIDs := strings.Fields(strings.TrimSpace(string(out)))
	if err != nil || len(windowIDs) == 0 {
		w.log.WithFields(logrus.Fields{"pid": pid}).Warn("No window found for pid via xdotool")
		return false, XdotoolNoWindow
	}

	// The last id tends to be the top-level window; earlier ones are often
	// hidden helper windows.
	target := windowIDs[len(windowIDs)-1]
	if err := exec.Command("xdotool", "windowactivate", target).Run(); err != nil {
		w.log.WithFields(logrus.Fields{
			"pid":    pid,
			"window": target,
		}).Warn("xdotool refused to activate window")
		return false, XdotoolFailed
	}

	w.log.WithFields(logrus.Fields{
		"pid":    pid,
		"window": target,
	}).Info("Window activated via xdotool")
	return true, XdotoolActivated
}
