// Package transform wraps the whole-program transform service behind a
// single-file request/response contract. The service itself is a batch black
// box: it traverses the full program and emits a per-file code map plus a
// per-file extern map. Policy callbacks are the adapter's only influence over
// the batch pass.
package transform

import (
	"context"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/paths"
)

// Policy configures one batch transform pass.
type Policy struct {
	// ShouldSkip reports whether a program file is excluded from the
	// transform. In the single-file case everything but the target is
	// skipped.
	ShouldSkip func(path string) bool

	// ModuleName maps a file path to its module name. Identity here; no
	// remapping.
	ModuleName func(path string) string

	// Warn routes transform warnings to the host's warning channel,
	// one message per call.
	Warn func(msg string)

	// TransformDecorators lowers decorators to annotations.
	TransformDecorators bool

	// TransformTypes converts type information to Closure annotations.
	TransformTypes bool

	// ES5Mode requests ES5-compatible output.
	ES5Mode bool

	// GoogModule wraps output in goog.module scaffolding. Off: the host
	// bundler does its own wrapping.
	GoogModule bool
}

// SingleFilePolicy is the policy used by the loader: only the unit itself is
// transformed, module names are the file names, warnings go to warn.
// Skipping is asserted by policy, not enforced structurally; a file is
// skipped unless its normalized path equals unit exactly.
func SingleFilePolicy(unit string, warn func(string)) Policy {
	return Policy{
		ShouldSkip: func(p string) bool {
			return paths.Normalize(p) != unit
		},
		ModuleName: func(p string) string {
			return p
		},
		Warn:                warn,
		TransformDecorators: true,
		TransformTypes:      true,
		ES5Mode:             true,
		GoogModule:          false,
	}
}

// Output collects one batch pass's results. The code map preserves the order
// the service produced entries in; selection picks the first match in that
// order.
type Output struct {
	order []string
	code  map[string]string

	// ExternsByPath maps source-space paths to raw declaration fragments.
	ExternsByPath map[string]string
}

// NewOutput returns an empty output accumulator.
func NewOutput() *Output {
	return &Output{
		code:          map[string]string{},
		ExternsByPath: map[string]string{},
	}
}

// AddCode records an emitted entry. First insertion fixes the entry's
// position; re-adding a path overwrites the text in place.
func (o *Output) AddCode(path, text string) {
	if _, ok := o.code[path]; !ok {
		o.order = append(o.order, path)
	}
	o.code[path] = text
}

// Code returns the text for an output path.
func (o *Output) Code(path string) (string, bool) {
	text, ok := o.code[path]
	return text, ok
}

// Paths returns all output paths in insertion order.
func (o *Output) Paths() []string {
	return append([]string(nil), o.order...)
}

// Len returns the number of code entries.
func (o *Output) Len() int {
	return len(o.order)
}

// Service is the batch transform black box.
type Service interface {
	// Transform runs the whole-program pass under the given policy. It
	// decides internally how to traverse the dependency graph.
	Transform(ctx context.Context, prog *compiler.Program, pol Policy) (*Output, error)
}
