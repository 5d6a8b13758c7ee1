package respond

import (
	"context"
	"os"
	"testing"

	"familiar/internal/entity"
	"familiar/pkg/log"
	"familiar/pkg/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	log.NewLogger()
	os.Exit(m.Run())
}

type completerFunc func(ctx context.Context, prompt string, opts ollama.Options) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
	return f(ctx, prompt, opts)
}

func TestRender(t *testing.T) {
	outcome := entity.SuccessOutcome(entity.IntentManageApp, "open",
		entity.CodeAppLaunched, "Application 'firefox' launched",
		map[string]string{"app_name": "firefox"})

	t.Run("model reply is trimmed and returned", func(t *testing.T) {
		r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			return "  Firefox is up.\n", nil
		}), log.NewLogger())

		assert.Equal(t, "Firefox is up.", r.Render(context.Background(), outcome))
	})

	t.Run("prompt carries the outcome fields", func(t *testing.T) {
		var seen string
		r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			seen = prompt
			return "ok", nil
		}), log.NewLogger())

		r.Render(context.Background(), outcome)
		assert.Contains(t, seen, entity.CodeAppLaunched)
		assert.Contains(t, seen, `"app_name": "firefox"`)
		assert.NotContains(t, seen, resultPlaceholder)
	})

	t.Run("error details never reach the model", func(t *testing.T) {
		failed := entity.ErrorOutcome(entity.IntentManageApp, "open",
			entity.CodeErrAppStartFailed, "Could not start 'firefox'", nil,
			entity.ErrTypeStartFailed, "fork/exec /usr/bin/firefox: permission denied")

		var seen string
		r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			seen = prompt
			return "Sorry, that did not work.", nil
		}), log.NewLogger())

		r.Render(context.Background(), failed)
		assert.NotContains(t, seen, "fork/exec")
	})

	t.Run("model failure falls back to the hint", func(t *testing.T) {
		r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			return "", ollama.ErrUnreachable
		}), log.NewLogger())

		assert.Equal(t, "Application 'firefox' launched", r.Render(context.Background(), outcome))
	})

	t.Run("empty model reply falls back to the hint", func(t *testing.T) {
		r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			return "   \n", nil
		}), log.NewLogger())

		assert.Equal(t, "Application 'firefox' launched", r.Render(context.Background(), outcome))
	})

	t.Run("no hint falls back to a generic line per status", func(t *testing.T) {
		broken := completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
			return "", ollama.ErrUnreachable
		})
		r := NewRenderer(broken, log.NewLogger())

		success := entity.SuccessOutcome(entity.IntentAskTime, "ask", entity.CodeTimeProvided, "", nil)
		assert.Equal(t, "Done.", r.Render(context.Background(), success))

		failure := entity.ErrorOutcome(entity.IntentAskTime, "ask", entity.CodeHandlerPanic, "", nil,
			entity.ErrTypeUnhandled, "panic")
		assert.Equal(t, "Something went wrong while executing the command.", r.Render(context.Background(), failure))
	})
}

func TestRenderDoesNotMutateOutcome(t *testing.T) {
	failed := entity.ErrorOutcome(entity.IntentManageApp, "open",
		entity.CodeErrAppStartFailed, "hint", nil, entity.ErrTypeStartFailed, "diag")

	r := NewRenderer(completerFunc(func(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
		return "ok", nil
	}), log.NewLogger())

	r.Render(context.Background(), failed)
	require.NotNil(t, failed.ErrorDetails)
	assert.Equal(t, "diag", failed.ErrorDetails.Message)
}
