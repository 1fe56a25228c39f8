package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolationMessage(t *testing.T) {
	err := Errorf("limit must be positive, got %d", 0)
	assert.Equal(t, "builder contract violation: limit must be positive, got 0", err.Error())
	assert.Equal(t, "limit must be positive, got 0", err.Message)
}

func TestIsViolation(t *testing.T) {
	err := Errorf("offset requires limit")
	assert.True(t, IsViolation(err))
	assert.True(t, errors.Is(err, ErrViolation))

	wrapped := fmt.Errorf("build: %w", err)
	assert.True(t, IsViolation(wrapped))

	var v *Violation
	assert.True(t, errors.As(wrapped, &v))
	assert.Equal(t, "offset requires limit", v.Message)

	assert.False(t, IsViolation(errors.New("other")))
	assert.False(t, IsViolation(nil))
}
