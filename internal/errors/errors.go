// Package errors provides sentinel errors for the tsickle loader.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrSchema indicates the host-supplied options violated the option schema.
	ErrSchema = errors.New("schema error")

	// ErrConfig indicates a malformed or unreadable project configuration file.
	ErrConfig = errors.New("config error")

	// ErrDiagnostics indicates the compiler reported error-severity diagnostics.
	ErrDiagnostics = errors.New("compile diagnostics")

	// ErrMissingOutput indicates the transform produced no entry for the requested file.
	ErrMissingOutput = errors.New("missing transform output")
)

// DetailError captures structured error information surfaced to the host.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (and line number where known) (optional).
	Location string

	// Field is the option field name for schema errors (optional).
	Field string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewSchemaError creates a schema violation error for a loader option field.
func NewSchemaError(message, field string) error {
	return &DetailError{
		Type:    "invalid options",
		Message: message,
		Field:   field,
		Hint:    "tsconfig and externDir must be strings when provided",
		Cause:   ErrSchema,
	}
}

// NewConfigError creates an error for a malformed project configuration file.
func NewConfigError(message, location string, cause error) error {
	return &DetailError{
		Type:     "invalid project configuration",
		Message:  message,
		Location: location,
		Cause:    errors.Join(ErrConfig, cause),
	}
}

// NewMissingOutputError creates an error for a source file the transform
// produced no output entry for.
func NewMissingOutputError(sourcePath string) error {
	return &DetailError{
		Type:     "no transform output",
		Message:  fmt.Sprintf("the transform emitted no code for %s; the file was skipped or its output path does not correspond to the source path", sourcePath),
		Location: sourcePath,
		Cause:    ErrMissingOutput,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
