package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotFound, "boundary not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeValidation))
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		cause := New(CodeConflict, "gap version mismatch")
		err := Wrap(cause, CodeInternal, "failed to transition gap")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		require.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("preserves cause for errors.Is", func(t *testing.T) {
		sentinel := errors.New("store down")
		err := Wrap(fmt.Errorf("load boundaries: %w", sentinel), CodeAggregation, "readiness inputs unavailable")
		assert.True(t, errors.Is(err, sentinel))
		assert.Equal(t, CodeAggregation, CodeOf(err))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "reason is required")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))
}
