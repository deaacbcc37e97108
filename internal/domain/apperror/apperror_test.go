package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_UnwrapsToKind(t *testing.T) {
	err := New(ErrInactiveEntity, "procedure is inactive")

	assert.True(t, errors.Is(err, ErrInactiveEntity))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "procedure is inactive", err.Error())
	assert.Equal(t, ErrInactiveEntity, err.Kind())
}

func TestWrap_MarksInfrastructure(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap("find dentist", cause)

	assert.True(t, errors.Is(err, ErrInfrastructure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "find dentist: infrastructure error: connection reset", err.Error())
}

func TestWrap_KeepsBusinessErrors(t *testing.T) {
	conflict := New(ErrSchedulingConflict, "slot taken")

	assert.Same(t, conflict, Wrap("create appointment", conflict))
	assert.Nil(t, Wrap("noop", nil))
}

func TestValidation(t *testing.T) {
	err := Validation("duration must be between %d and %d minutes", 15, 480)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, IsBusiness(err))
	assert.Equal(t, "duration must be between 15 and 480 minutes", err.Error())
}
