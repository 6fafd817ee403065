package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ProviderError
		expected string
	}{
		{
			name:     "message only",
			err:      &ProviderError{StatusCode: 500, Message: "upstream failure"},
			expected: "upstream failure",
		},
		{
			name:     "with code",
			err:      &ProviderError{StatusCode: 400, Message: "invalid request", Code: "parameter_invalid"},
			expected: "invalid request (code=parameter_invalid)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewProviderError_DefaultsStatusTo500(t *testing.T) {
	err := NewProviderError(0, "boom", nil)
	assert.Equal(t, 500, err.StatusCode)

	err = NewProviderError(402, "card declined", nil)
	assert.Equal(t, 402, err.StatusCode)
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderError(0, "transport failure", cause)

	wrapped := fmt.Errorf("gateway: %w", err)

	var pe *ProviderError
	assert.True(t, errors.As(wrapped, &pe))
	assert.ErrorIs(t, wrapped, cause)
}

func TestValidationErrors_Error(t *testing.T) {
	err := NewValidationErrors("Amount must be greater than 0", "Currency is required")
	assert.Equal(t, "validation failed: Amount must be greater than 0; Currency is required", err.Error())
	assert.Len(t, err.Violations, 2)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("email", "must be a valid email")
	assert.Equal(t, "validation failed for field email: must be a valid email", err.Error())
}
