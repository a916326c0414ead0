package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "unknown style: %s", "greek")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Message != "unknown style: greek" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown style: greek")
	}

	expected := "INVALID_CONFIG: unknown style: greek"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "open events")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	cycle := &RecursionError{Code: ErrCodeCycleDetected, Chain: []Visit{{DocumentID: 1}, {DocumentID: 2}, {DocumentID: 1}}}

	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "recursion error",
			err:      cycle,
			code:     ErrCodeCycleDetected,
			expected: true,
		},
		{
			name:     "recursion error behind fmt wrap",
			err:      fmt.Errorf("expand: %w", cycle),
			code:     ErrCodeCycleDetected,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidFormat, "test"),
			expected: ErrCodeInvalidFormat,
		},
		{
			name:     "recursion error",
			err:      &RecursionError{Code: ErrCodeDepthExceeded},
			expected: ErrCodeDepthExceeded,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRecursionError(t *testing.T) {
	t.Run("cycle chain", func(t *testing.T) {
		err := &RecursionError{
			Code:  ErrCodeCycleDetected,
			Chain: []Visit{{DocumentID: 1}, {DocumentID: 2, Fragment: "intro"}, {DocumentID: 1}},
		}
		expected := "CYCLE_DETECTED: reference loop: 1 -> 2#intro -> 1"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("depth chain", func(t *testing.T) {
		err := &RecursionError{Code: ErrCodeDepthExceeded, Chain: []Visit{{DocumentID: 7}, {DocumentID: 8}}}
		if !strings.Contains(err.Error(), "nested 2 deep") {
			t.Errorf("Error() = %v, want depth mention", err.Error())
		}
	})

	t.Run("ids", func(t *testing.T) {
		err := &RecursionError{Chain: []Visit{{DocumentID: 3}, {DocumentID: 4}}}
		ids := err.IDs()
		if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
			t.Errorf("IDs() = %v, want [3 4]", ids)
		}
	})
}
