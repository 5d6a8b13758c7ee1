package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"familiar/internal/alias"
	"familiar/internal/entity"
	"familiar/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	log.NewLogger()
	os.Exit(m.Run())
}

type spyHandler struct {
	intent  string
	calls   int
	outcome entity.Outcome
	panics  bool
}

func (s *spyHandler) Intent() string {
	return s.intent
}

func (s *spyHandler) Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.outcome
}

func newTestStore(t *testing.T) alias.Store {
	t.Helper()
	store, err := alias.NewFileStore(filepath.Join(t.TempDir(), "aliases.json"), log.NewLogger())
	require.NoError(t, err)
	return store
}

func TestDispatch(t *testing.T) {
	t.Run("routes to the matching handler", func(t *testing.T) {
		spy := &spyHandler{
			intent:  entity.IntentAskTime,
			outcome: entity.SuccessOutcome(entity.IntentAskTime, "ask", entity.CodeTimeProvided, "", nil),
		}
		d := New(newTestStore(t), log.NewLogger(), spy)

		out := d.Dispatch(context.Background(), &entity.Envelope{Intent: entity.IntentAskTime}, false)
		assert.Equal(t, 1, spy.calls)
		assert.Equal(t, entity.CodeTimeProvided, out.MessageCode)
	})

	t.Run("nil envelope is an invalid envelope outcome", func(t *testing.T) {
		spy := &spyHandler{intent: entity.IntentAskTime}
		d := New(newTestStore(t), log.NewLogger(), spy)

		out := d.Dispatch(context.Background(), nil, false)
		assert.True(t, out.IsError())
		assert.Equal(t, entity.CodeInvalidEnvelope, out.MessageCode)
		assert.Equal(t, 0, spy.calls)
	})

	t.Run("empty intent is an invalid envelope outcome", func(t *testing.T) {
		d := New(newTestStore(t), log.NewLogger())

		out := d.Dispatch(context.Background(), &entity.Envelope{}, false)
		assert.Equal(t, entity.CodeInvalidEnvelope, out.MessageCode)
	})

	t.Run("unknown intent is reported, never raised", func(t *testing.T) {
		d := New(newTestStore(t), log.NewLogger())

		out := d.Dispatch(context.Background(), &entity.Envelope{Intent: entity.IntentWebSearch}, false)
		assert.True(t, out.IsError())
		assert.Equal(t, entity.CodeIntentNotImplemented, out.MessageCode)
		assert.Equal(t, entity.IntentWebSearch, out.Intent)
		require.NotNil(t, out.ErrorDetails)
		assert.Equal(t, entity.ErrTypeNotImplemented, out.ErrorDetails.Type)
	})

	t.Run("handler panic becomes a structured outcome", func(t *testing.T) {
		spy := &spyHandler{intent: entity.IntentManageApp, panics: true}
		d := New(newTestStore(t), log.NewLogger(), spy)

		out := d.Dispatch(context.Background(), &entity.Envelope{Intent: entity.IntentManageApp}, false)
		assert.True(t, out.IsError())
		assert.Equal(t, entity.CodeHandlerPanic, out.MessageCode)
		assert.Equal(t, entity.IntentManageApp, out.Intent)
		assert.Contains(t, out.ErrorDetails.Message, "boom")
	})
}

func TestDispatchDebug(t *testing.T) {
	t.Run("echoes without invoking any handler", func(t *testing.T) {
		spy := &spyHandler{intent: entity.IntentManageApp, panics: true}
		d := New(newTestStore(t), log.NewLogger(), spy)

		env := &entity.Envelope{
			Intent:     entity.IntentManageApp,
			Parameters: entity.Parameters{"action": "open", "app_name": "firefox"},
		}
		out := d.Dispatch(context.Background(), env, true)

		assert.Equal(t, 0, spy.calls)
		assert.False(t, out.IsError())
		assert.Equal(t, entity.CodeDebugEcho, out.MessageCode)
		assert.Equal(t, "open", out.Data["param_action"])
		assert.Equal(t, "firefox", out.Data["param_app_name"])
	})

	t.Run("shows alias resolution for reference", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Upsert("browser", "firefox")
		require.NoError(t, err)

		d := New(store, log.NewLogger())
		env := &entity.Envelope{
			Intent:     entity.IntentManageApp,
			Parameters: entity.Parameters{"action": "open", "app_name": "Browser"},
		}
		out := d.Dispatch(context.Background(), env, true)

		assert.Equal(t, "firefox", out.Data["canonical_name"])
	})
}
