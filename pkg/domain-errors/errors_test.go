package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil in, nil out", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "failed to reach store")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeInternal))
	})

	t.Run("outermost code wins through nesting", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "lookup failed")
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})
}

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "email taken")
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))

	t.Run("sees through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", New(CodeConflict, "email taken"))
		assert.True(t, HasCode(wrapped, CodeConflict))
	})
}

func TestCodeOfAndMessageOf(t *testing.T) {
	err := New(CodeUnauthorized, "token has expired")
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
	assert.Equal(t, "token has expired", MessageOf(err))

	t.Run("unclassified errors stay generic", func(t *testing.T) {
		plain := errors.New("pq: deadlock detected")
		assert.Equal(t, CodeInternal, CodeOf(plain))
		assert.Equal(t, "internal error", MessageOf(plain))
	})
}

func TestIsMatchesByCodeAndMessage(t *testing.T) {
	err := New(CodeUnauthorized, "invalid token")
	assert.ErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
	assert.NotErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
}
