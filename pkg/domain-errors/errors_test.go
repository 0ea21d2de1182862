package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error matches its code", func(t *testing.T) {
		err := New(CodeNotFound, "member missing")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("wrapped error still matches", func(t *testing.T) {
		inner := New(CodeConflict, "natural key already registered")
		outer := fmt.Errorf("register member: %w", inner)
		assert.True(t, HasCode(outer, CodeConflict))
	})

	t.Run("non-domain error matches nothing", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeTimeout, "store unavailable")

	require.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeTimeout, err.Code())
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeBadRequest, CodeOf(New(CodeBadRequest, "x")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
