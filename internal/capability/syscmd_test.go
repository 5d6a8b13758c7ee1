package capability

import (
	"context"
	"errors"
	"os"
	"testing"

	"familiar/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	log.NewLogger()
	os.Exit(m.Run())
}

func failingLookPath(name string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

func TestCommandRunnerProbe(t *testing.T) {
	t.Run("missing binary short-circuits before execution", func(t *testing.T) {
		r := &commandRunner{log: log.NewLogger(), lookPath: failingLookPath}

		ok, _, err := r.Run(context.Background(), CommandSpec{Argv: []string{"no-such-binary"}})
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrToolNotFound)
	})

	t.Run("probe looks behind sudo", func(t *testing.T) {
		var probed string
		r := &commandRunner{log: log.NewLogger(), lookPath: func(name string) (string, error) {
			probed = name
			return "", errors.New("not found")
		}}

		_, _, err := r.Run(context.Background(), CommandSpec{Argv: []string{"sudo", "/sbin/shutdown", "-h", "now"}})
		assert.ErrorIs(t, err, ErrToolNotFound)
		assert.Equal(t, "/sbin/shutdown", probed)
	})

	t.Run("shell probe uses the first word", func(t *testing.T) {
		var probed string
		r := &commandRunner{log: log.NewLogger(), lookPath: func(name string) (string, error) {
			probed = name
			return "", errors.New("not found")
		}}

		_, _, err := r.Run(context.Background(), CommandSpec{Shell: "sudo apt update && sudo apt upgrade -y"})
		assert.ErrorIs(t, err, ErrToolNotFound)
		assert.Equal(t, "apt", probed)
	})

	t.Run("empty spec is rejected", func(t *testing.T) {
		r := &commandRunner{log: log.NewLogger(), lookPath: failingLookPath}

		_, _, err := r.Run(context.Background(), CommandSpec{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrToolNotFound)
	})
}

func TestCommandRunnerExecution(t *testing.T) {
	r := NewCommandRunner(log.NewLogger())

	t.Run("captured stdout is trimmed", func(t *testing.T) {
		ok, out, err := r.Run(context.Background(), CommandSpec{
			Argv:    []string{"echo", "hello"},
			Capture: true,
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hello", out)
	})

	t.Run("non-zero exit is reported, not raised", func(t *testing.T) {
		ok, _, err := r.Run(context.Background(), CommandSpec{
			Argv: []string{"false"},
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("extra env entries reach the child", func(t *testing.T) {
		ok, out, err := r.Run(context.Background(), CommandSpec{
			Shell: "echo $FAMILIAR_TEST_VAR",
			Env:   []string{"FAMILIAR_TEST_VAR=present"},
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "present", out)
	})
}

func TestWindowActivatorToolsMissing(t *testing.T) {
	w := &windowActivator{log: log.NewLogger(), lookPath: failingLookPath}

	t.Run("no tools at all reports xdotool missing", func(t *testing.T) {
		ok, code := w.Activate("firefox", 4242)
		assert.False(t, ok)
		assert.Equal(t, XdotoolMissing, code)
	})

	t.Run("unknown pid cannot fall back", func(t *testing.T) {
		ok, code := w.Activate("firefox", 0)
		assert.False(t, ok)
		assert.Equal(t, XdotoolNoWindow, code)
	})
}
