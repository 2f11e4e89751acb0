package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewAppError(ErrInternalServer, "failed to load party", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load party")
	assert.Contains(t, err.Error(), "boom")
}

func TestIs(t *testing.T) {
	assert.True(t, Is(NewAppError(ErrNotFound, "party not found", nil), ErrNotFound))
	assert.False(t, Is(NewAppError(ErrForbidden, "nope", nil), ErrNotFound))
	assert.False(t, Is(stderrors.New("plain"), ErrNotFound))
}
