// Package loader wires the compilation pipeline behind the host-facing
// entry point: resolve options, build the program, gate on diagnostics,
// transform the requested file, post-process, and publish externs.
package loader

import (
	"context"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/config"
	"github.com/rohanorton/tsickle-loader/internal/externs"
	"github.com/rohanorton/tsickle-loader/internal/fix"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/paths"
	"github.com/rohanorton/tsickle-loader/internal/transform"
)

// Host is the build-tool side of the contract. The loader reports problems
// through the host instead of failing the process: diagnostics and pipeline
// failures arrive via EmitError, advisory notices via EmitWarning.
type Host interface {
	// EmitError records a failure against the current compilation unit.
	EmitError(err error)

	// EmitWarning records an advisory message that does not fail the build.
	EmitWarning(msg string)
}

// HostFuncs adapts plain functions to the Host interface. Nil fields are
// no-ops.
type HostFuncs struct {
	OnError   func(error)
	OnWarning func(string)
}

func (h HostFuncs) EmitError(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

func (h HostFuncs) EmitWarning(msg string) {
	if h.OnWarning != nil {
		h.OnWarning(msg)
	}
}

// Loader processes one source file at a time against a shared resolved
// configuration. A single Loader may serve many Process calls; the extern
// sink is the only shared mutable state and appends are fragment-atomic.
type Loader struct {
	cfg     *config.CompilationConfig
	fe      compiler.Frontend
	adapter *transform.Adapter
	sink    externs.Sink
}

// Option customizes loader construction.
type Option func(*settings)

type settings struct {
	fe      compiler.Frontend
	service transform.Service
	sink    externs.Sink
}

// WithFrontend replaces the type-checking front-end.
func WithFrontend(fe compiler.Frontend) Option {
	return func(s *settings) { s.fe = fe }
}

// WithService replaces the transform service.
func WithService(svc transform.Service) Option {
	return func(s *settings) { s.service = svc }
}

// WithSink replaces the extern sink.
func WithSink(sink externs.Sink) Option {
	return func(s *settings) { s.sink = sink }
}

// New resolves raw host options into a ready loader. Option validation and
// extern directory creation happen here, before any file is processed, so a
// misconfigured host fails fast with a schema or config error.
func New(raw map[string]any, opts ...Option) (*Loader, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.fe == nil {
		s.fe = compiler.NewTypeScriptFrontend()
	}
	if s.service == nil {
		s.service = transform.NewTypeScriptService()
	}

	cfg, err := config.Resolve(raw, s.fe)
	if err != nil {
		return nil, err
	}

	if s.sink == nil {
		s.sink = externs.NewFileSink(cfg.ExternFile)
	}

	return &Loader{
		cfg:     cfg,
		fe:      s.fe,
		adapter: transform.NewAdapter(s.service),
		sink:    s.sink,
	}, nil
}

// Config exposes the resolved configuration, mainly for callers that report
// where the externs artifact lives.
func (l *Loader) Config() *config.CompilationConfig {
	return l.cfg
}

// Result is the outcome of one successful invocation.
type Result struct {
	// Code is the post-processed emitted code for the requested file.
	Code string

	// ExternAppended reports whether this invocation grew the externs
	// artifact.
	ExternAppended bool
}

// Process runs the full pipeline for one source file and returns its
// post-processed emitted code.
func (l *Loader) Process(ctx context.Context, resourcePath string, host Host) (string, error) {
	res, err := l.Run(ctx, resourcePath, host)
	return res.Code, err
}

// Run is Process with the full invocation outcome.
//
// Failures are reported through the host and returned; when an error is
// returned the extern artifact has not been touched for this call.
func (l *Loader) Run(ctx context.Context, resourcePath string, host Host) (Result, error) {
	unit := paths.Normalize(resourcePath)
	output.Debug("processing", "file", unit)

	prog, err := l.fe.BuildProgram(ctx, unit, l.cfg.CompilerOptions)
	if err != nil {
		host.EmitError(err)
		return Result{}, err
	}

	diags, err := l.fe.Diagnose(ctx, prog)
	if err != nil {
		host.EmitError(err)
		return Result{}, err
	}
	for _, w := range compiler.Warnings(diags) {
		host.EmitWarning(compiler.FormatDiagnostics([]compiler.Diagnostic{w}, false))
	}
	if compiler.HasErrors(diags) {
		// All errors surface as one formatted report so the host shows a
		// single failure per compilation unit.
		diagErr := compiler.NewDiagnosticError(diags)
		host.EmitError(diagErr)
		return Result{}, diagErr
	}

	code, extern, err := l.adapter.TransformOne(ctx, unit, prog, host.EmitWarning)
	if err != nil {
		host.EmitError(err)
		return Result{}, err
	}

	res := Result{Code: fix.Code(code)}

	if extern != "" {
		fragment := fix.Extern(extern)
		if err := l.sink.Append(fragment); err != nil {
			host.EmitError(err)
			return Result{}, err
		}
		res.ExternAppended = true
		output.Debug("externs appended", "file", unit, "bytes", len(fragment))
	}

	return res, nil
}
