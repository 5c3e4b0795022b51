package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInvalidArgument, "dimension must be positive"),
			expected: "[INVALID_ARGUMENT] dimension must be positive",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeIOError, "grid file too short", errors.New("unexpected EOF")),
			expected: "[IO_ERROR] grid file too short: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset")
	err := Wrap(CodeCommunicationError, "halo send failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeResourceError, "error 1")
	err2 := New(CodeResourceError, "error 2")
	err3 := New(CodeIOError, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsInvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"invalid argument error", New(CodeInvalidArgument, "P > D"), true},
		{"other error", New(CodeIOError, "not found"), false},
		{"plain error", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInvalidArgument(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeCommunicationError, GetErrorCode(New(CodeCommunicationError, "x")))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", GetErrorMessage(New(CodeResourceError, "boom")))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
