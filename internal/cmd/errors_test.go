package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loadererrors "github.com/rohanorton/tsickle-loader/internal/errors"
)

func TestExitErrorWrapping(t *testing.T) {
	inner := errors.New("boom")
	err := NewExitError(inner, ExitDiagnostics)

	assert.Equal(t, "boom", err.Error())
	assert.True(t, errors.Is(err, inner))

	var exitErr *ExitError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &exitErr))
	assert.Equal(t, ExitDiagnostics, exitErr.Code)
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"explicit exit error", NewExitError(errors.New("x"), ExitMissingOutput), ExitMissingOutput},
		{"schema sentinel", loadererrors.NewSchemaError("bad", "tsconfig"), ExitSchemaError},
		{"config sentinel", loadererrors.NewConfigError("bad", "tsconfig.json", errors.New("parse")), ExitConfigError},
		{"diagnostics sentinel", loadererrors.Wrap(loadererrors.ErrDiagnostics, "3 errors"), ExitDiagnostics},
		{"missing output sentinel", loadererrors.NewMissingOutputError("/src/app.ts"), ExitMissingOutput},
		{"plain error", errors.New("anything"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Schema Error", ExitCodeName(ExitSchemaError))
	assert.Equal(t, "Compile Diagnostics", ExitCodeName(ExitDiagnostics))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
