package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorCode(t *testing.T) {
	t.Parallel()

	base := NewNotFoundError("Bot", "bot-1")

	assert.Equal(t, ErrNotFound, GetErrorCode(base))
	assert.Equal(t, ErrNotFound, GetErrorCode(fmt.Errorf("resolve bot: %w", base)))
	assert.Equal(t, ErrNotFound, GetErrorCode(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", base))))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
}

func TestIsErrorCode(t *testing.T) {
	t.Parallel()

	err := NewBotOwnershipError("bot-1", "tenant-b")

	assert.True(t, IsErrorCode(err, ErrBotOwnership))
	assert.True(t, IsErrorCode(fmt.Errorf("prepare: %w", err), ErrBotOwnership))
	assert.False(t, IsErrorCode(err, ErrNotFound))
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewError(ErrUpstreamError, "provider call failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
