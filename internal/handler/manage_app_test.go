package handler

import (
	"context"
	"testing"

	"familiar/internal/capability"
	"familiar/internal/entity"
	"familiar/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManageAppForTest(procs *fakeProcs, windows *fakeWindows, lookPath capability.LookPathFunc) *ManageApp {
	h := NewManageApp(procs, windows, newTestValidator(), log.NewLogger())
	if lookPath != nil {
		h.lookPath = lookPath
	}
	return h
}

func TestManageAppValidation(t *testing.T) {
	t.Run("missing app_name", func(t *testing.T) {
		h := newManageAppForTest(&fakeProcs{}, &fakeWindows{}, nil)

		out := h.Handle(context.Background(), entity.Parameters{"action": "open"}, newMemStore(nil))
		assert.Equal(t, entity.CodeErrAppParamsMissing, out.MessageCode)
		assert.Equal(t, entity.ErrTypeParameterMissing, out.ErrorDetails.Type)
	})

	t.Run("missing action", func(t *testing.T) {
		h := newManageAppForTest(&fakeProcs{}, &fakeWindows{}, nil)

		out := h.Handle(context.Background(), entity.Parameters{"app_name": "firefox"}, newMemStore(nil))
		assert.Equal(t, entity.CodeErrAppParamsMissing, out.MessageCode)
		assert.Equal(t, "unknown", out.ActionPerformed)
	})

	t.Run("unknown action is its own code", func(t *testing.T) {
		h := newManageAppForTest(&fakeProcs{}, &fakeWindows{}, nil)

		out := h.Handle(context.Background(), entity.Parameters{"action": "minimize", "app_name": "firefox"}, newMemStore(nil))
		assert.Equal(t, entity.CodeErrAppUnknownAction, out.MessageCode)
		assert.Equal(t, entity.ErrTypeUnknownAction, out.ErrorDetails.Type)
		assert.Equal(t, "minimize", out.ActionPerformed)
	})
}

func TestManageAppOpen(t *testing.T) {
	t.Run("unresolvable executable is never launched", func(t *testing.T) {
		procs := &fakeProcs{}
		h := newManageAppForTest(procs, &fakeWindows{}, lookPathTable())

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "ghostapp"}, newMemStore(nil))
		assert.Equal(t, entity.CodeErrAppNotFoundSystem, out.MessageCode)
		assert.Equal(t, entity.ErrTypeNotFound, out.ErrorDetails.Type)
		assert.Empty(t, procs.launched)
	})

	t.Run("resolvable executable is launched", func(t *testing.T) {
		procs := &fakeProcs{}
		h := newManageAppForTest(procs, &fakeWindows{}, lookPathTable("firefox"))

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "Firefox"}, newMemStore(nil))
		require.False(t, out.IsError())
		assert.Equal(t, entity.CodeAppLaunched, out.MessageCode)
		assert.Equal(t, []string{"/usr/bin/firefox"}, procs.launched)
		assert.Equal(t, "firefox", out.Data["app_name"])
	})

	t.Run("launch failure is reported", func(t *testing.T) {
		procs := &fakeProcs{launchErr: errNotInPath}
		h := newManageAppForTest(procs, &fakeWindows{}, lookPathTable("firefox"))

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "firefox"}, newMemStore(nil))
		assert.Equal(t, entity.CodeErrAppStartFailed, out.MessageCode)
	})

	t.Run("alias is resolved before lookup", func(t *testing.T) {
		procs := &fakeProcs{}
		h := newManageAppForTest(procs, &fakeWindows{}, lookPathTable("firefox"))
		store := newMemStore(map[string]string{"browser": "firefox"})

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "Browser"}, store)
		assert.Equal(t, entity.CodeAppLaunched, out.MessageCode)
		assert.Equal(t, "firefox", out.Data["app_name"])
		assert.Equal(t, "Browser", out.Data["app_name_raw"])
	})

	t.Run("running app is focused, not relaunched", func(t *testing.T) {
		procs := &fakeProcs{runningPid: 4242, running: true}
		windows := &fakeWindows{ok: true, code: capability.WmctrlActivated}
		h := newManageAppForTest(procs, windows, lookPathTable("firefox"))

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "firefox"}, newMemStore(nil))
		require.False(t, out.IsError())
		assert.Equal(t, entity.CodeAppFocusedWmctrl, out.MessageCode)
		assert.Empty(t, procs.launched)
		assert.Equal(t, string(capability.WmctrlActivated), out.Data["activation_code"])
	})

	t.Run("pid fallback activation gets its own code", func(t *testing.T) {
		procs := &fakeProcs{runningPid: 4242, running: true}
		windows := &fakeWindows{ok: true, code: capability.XdotoolActivated}
		h := newManageAppForTest(procs, windows, nil)

		out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "firefox"}, newMemStore(nil))
		assert.Equal(t, entity.CodeAppFocusedXdotool, out.MessageCode)
	})

	t.Run("activation failures map to typed outcomes", func(t *testing.T) {
		tests := []struct {
			name     string
			code     capability.ActivationCode
			wantCode string
			wantType string
		}{
			{"xdotool missing", capability.XdotoolMissing, entity.CodeErrActivateToolMissing, entity.ErrTypeToolMissing},
			{"no window for pid", capability.XdotoolNoWindow, entity.CodeErrActivateNoWindow, entity.ErrTypeActivationFailed},
			{"activate failed", capability.XdotoolFailed, entity.CodeErrActivateFailed, entity.ErrTypeActivationFailed},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				procs := &fakeProcs{runningPid: 4242, running: true}
				windows := &fakeWindows{ok: false, code: tt.code}
				h := newManageAppForTest(procs, windows, nil)

				out := h.Handle(context.Background(), entity.Parameters{"action": "open", "app_name": "firefox"}, newMemStore(nil))
				assert.Equal(t, tt.wantCode, out.MessageCode)
				assert.Equal(t, tt.wantType, out.ErrorDetails.Type)
				assert.Empty(t, procs.launched)
			})
		}
	})
}

func TestManageAppClose(t *testing.T) {
	t.Run("closing an absent app succeeds", func(t *testing.T) {
		procs := &fakeProcs{}
		h := newManageAppForTest(procs, &fakeWindows{}, nil)

		out := h.Handle(context.Background(), entity.Parameters{"action": "close", "app_name": "firefox"}, newMemStore(nil))
		require.False(t, out.IsError())
		assert.Equal(t, entity.CodeAppCloseNothing, out.MessageCode)
		assert.Empty(t, procs.terminated)
	})

	t.Run("termination results map to typed outcomes", func(t *testing.T) {
		tests := []struct {
			name       string
			result     capability.TerminateResult
			wantCode   string
			wantErr    bool
			wantMethod string
		}{
			{"graceful", capability.TerminatedGracefully, entity.CodeAppCloseDone, false, "graceful"},
			{"forced", capability.TerminatedForcefully, entity.CodeAppCloseDone, false, "forced"},
			{"denied", capability.TerminateDenied, entity.CodeErrAppCloseDenied, true, ""},
			{"survived", capability.TerminateSurvived, entity.CodeErrAppCloseFailed, true, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				procs := &fakeProcs{runningPid: 4242, running: true, terminateResult: tt.result}
				h := newManageAppForTest(procs, &fakeWindows{}, nil)

				out := h.Handle(context.Background(), entity.Parameters{"action": "close", "app_name": "firefox"}, newMemStore(nil))
				assert.Equal(t, tt.wantCode, out.MessageCode)
				assert.Equal(t, tt.wantErr, out.IsError())
				assert.Equal(t, []int32{4242}, procs.terminated)
				if tt.wantMethod != "" {
					assert.Equal(t, tt.wantMethod, out.Data["method"])
				}
			})
		}
	})
}
