package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersUnmarshal(t *testing.T) {
	t.Run("plain strings pass through", func(t *testing.T) {
		var p Parameters
		err := json.Unmarshal([]byte(`{"action": "open", "app_name": "firefox"}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "open", p.Get("action"))
		assert.Equal(t, "firefox", p.Get("app_name"))
	})

	t.Run("numbers and booleans are coerced to strings", func(t *testing.T) {
		var p Parameters
		err := json.Unmarshal([]byte(`{"amount": 20, "ratio": 1.5, "confirm": true}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "20", p.Get("amount"))
		assert.Equal(t, "1.5", p.Get("ratio"))
		assert.Equal(t, "true", p.Get("confirm"))
	})

	t.Run("nested values are dropped, siblings survive", func(t *testing.T) {
		var p Parameters
		err := json.Unmarshal([]byte(`{"action": "open", "extra": {"a": 1}, "list": [1, 2]}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "open", p.Get("action"))
		assert.Equal(t, "", p.Get("extra"))
		assert.Equal(t, "", p.Get("list"))
		assert.Len(t, p, 1)
	})

	t.Run("non-object input is an error", func(t *testing.T) {
		var p Parameters
		err := json.Unmarshal([]byte(`["open"]`), &p)
		assert.Error(t, err)
	})

	t.Run("Get on nil map is safe", func(t *testing.T) {
		var p Parameters
		assert.Equal(t, "", p.Get("anything"))
	})
}

func TestOutcomeConstructors(t *testing.T) {
	t.Run("success never carries error details", func(t *testing.T) {
		o := SuccessOutcome(IntentAskTime, "ask", CodeTimeProvided, "hint", nil)
		assert.Equal(t, StatusSuccess, o.Status)
		assert.False(t, o.IsError())
		assert.Nil(t, o.ErrorDetails)
		assert.NotNil(t, o.Data)
	})

	t.Run("error carries its classification", func(t *testing.T) {
		o := ErrorOutcome(IntentManageApp, "open", CodeErrAppNotFoundSystem, "hint", nil,
			ErrTypeNotFound, "no executable")
		assert.True(t, o.IsError())
		require.NotNil(t, o.ErrorDetails)
		assert.Equal(t, ErrTypeNotFound, o.ErrorDetails.Type)
		assert.Equal(t, "no executable", o.ErrorDetails.Message)
	})
}
