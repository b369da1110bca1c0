// Package compiler defines the front-end contract: building a type-checkable
// program from a single root file and producing diagnostics over it. The
// front-end itself is a black box behind the Frontend interface; this package
// ships an in-process implementation backed by the embedded TypeScript
// compiler.
package compiler

import (
	"context"
)

// Options is the opaque compiler option set resolved from the project
// configuration file. The loader passes it through untouched; only the
// front-end and the transform service interpret it.
type Options map[string]any

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError aborts the pipeline when present in the pre-emission set.
	SeverityError Severity = "error"

	// SeverityWarning is forwarded to the host and never aborts.
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single static-analysis finding.
type Diagnostic struct {
	Severity Severity

	// File is the normalized source path the finding refers to.
	File string

	// Line and Col are 1-based; zero when the front-end had no position.
	Line int
	Col  int

	// Code is the front-end's diagnostic code (e.g. "TS2322"), optional.
	Code string

	Message string
}

// Program is the type-checked representation of one root file plus the
// transitive dependency closure the front-end resolved for it. Programs are
// invocation-scoped; nothing is cached across invocations.
type Program struct {
	// Root is the single file this invocation is responsible for.
	Root string

	// Files lists the closure in discovery order, root first. All paths are
	// absolute and slash-normalized.
	Files []string

	// Options are the compiler options the program was built against.
	Options Options
}

// Frontend builds programs and produces diagnostics. Implementations must be
// safe for use by concurrent invocations.
type Frontend interface {
	// LoadConfig reads and parses the project configuration file at path and
	// returns its compiler options. Malformed content is returned as a parse
	// error, not swallowed.
	LoadConfig(path string) (Options, error)

	// BuildProgram constructs a program whose root file list is exactly
	// [root]. Dependency resolution is internal to the front-end.
	BuildProgram(ctx context.Context, root string, opts Options) (*Program, error)

	// Diagnose computes the full pre-emission diagnostic set for the program.
	Diagnose(ctx context.Context, prog *Program) ([]Diagnostic, error)
}

// HasErrors reports whether any diagnostic in the set is error-severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-severity diagnostics, in order.
func Warnings(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
