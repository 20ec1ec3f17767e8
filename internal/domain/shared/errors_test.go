package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("load: %w", ErrUserNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("pool closed")
	err := WrapError("user", "List", ErrServiceUnavailable, "failed to list users", cause)

	assert.Equal(t, "user.List: failed to list users: pool closed", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsValidation(ErrUnknownInterest))
	assert.True(t, IsInvalidState(ErrPickerClosed))
	assert.True(t, IsNotFound(ErrPickerNotFound))
}
