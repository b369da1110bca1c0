package cmd

import (
	"errors"

	loadererrors "github.com/rohanorton/tsickle-loader/internal/errors"
)

// ExitError carries a specific exit code alongside the underlying error.
type ExitError struct {
	Err  error
	Code int

	// Printed marks errors the command layer already rendered; main skips
	// printing them a second time.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, loadererrors.ErrSchema):
		return ExitSchemaError
	case errors.Is(err, loadererrors.ErrConfig):
		return ExitConfigError
	case errors.Is(err, loadererrors.ErrDiagnostics):
		return ExitDiagnostics
	case errors.Is(err, loadererrors.ErrMissingOutput):
		return ExitMissingOutput
	default:
		return ExitGeneralError
	}
}
