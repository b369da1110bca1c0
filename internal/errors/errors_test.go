//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrSchema, ErrConfig)
	assert.NotEqual(t, ErrSchema, ErrDiagnostics)
	assert.NotEqual(t, ErrConfig, ErrMissingOutput)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "invalid options",
		Message:  "expected string",
		Location: "webpack.config.js",
		Field:    "externDir",
		Hint:     "Pass a path string",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: invalid options")
	assert.Contains(t, output, "Location: webpack.config.js")
	assert.Contains(t, output, "Field: externDir")
	assert.Contains(t, output, "expected string")
	assert.Contains(t, output, "Hint: Pass a path string")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrSchema,
	}

	assert.True(t, errors.Is(detail, ErrSchema))
	assert.Equal(t, ErrSchema, detail.Unwrap())
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("expected string, got int", "tsconfig")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "invalid options", detail.Type)
	assert.Equal(t, "tsconfig", detail.Field)
}

func TestNewConfigError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewConfigError("parsing tsconfig", "tsconfig.json", cause)

	assert.True(t, errors.Is(err, ErrConfig))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "tsconfig.json")
}

func TestNewMissingOutputError(t *testing.T) {
	err := NewMissingOutputError("/src/widget.ts")

	assert.True(t, errors.Is(err, ErrMissingOutput))
	assert.Contains(t, err.Error(), "/src/widget.ts")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrConfig, "reading tsconfig")

	assert.True(t, errors.Is(wrapped, ErrConfig))
	assert.Contains(t, wrapped.Error(), "reading tsconfig")
}
