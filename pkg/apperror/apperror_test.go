package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindSentinel(t *testing.T) {
	err := NotFound("doctor")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "doctor not found", err.Error())
}

func TestIs_ThroughWrapping(t *testing.T) {
	base := InvalidTransition("ticket is not pending")
	wrapped := fmt.Errorf("complete ticket: %w", base)

	assert.True(t, errors.Is(wrapped, ErrInvalidTransition))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, CodeInvalidTransition, CodeOf(wrapped))
}

func TestIs_DistinctMessagesDoNotMatch(t *testing.T) {
	a := Validation("name is required")
	b := Validation("motive is required")

	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, ErrValidation))
}

func TestConflict_UnwrapsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflict("registration conflict", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "registration conflict: duplicate key", err.Error())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
