package cmd

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/externs"
	"github.com/rohanorton/tsickle-loader/internal/loader"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/paths"
	"github.com/rohanorton/tsickle-loader/internal/transform"
)

func TestSelectService(t *testing.T) {
	svc, err := selectService("typescript", "")
	require.NoError(t, err)
	assert.IsType(t, &transform.TypeScriptService{}, svc)

	svc, err = selectService("Tsickle", "./bin/bridge")
	require.NoError(t, err)
	require.IsType(t, &transform.TsickleService{}, svc)

	_, err = selectService("closure", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closure")
}

func TestRunBuildRejectsBadFormat(t *testing.T) {
	err := runBuild([]string{"a.ts"}, buildFlags{format: "xml"})
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitGeneralError, exitErr.Code)
}

func TestNewBuildCmdFlags(t *testing.T) {
	cmd := NewBuildCmd()

	for _, name := range []string{"tsconfig", "extern-dir", "service", "tsickle-cmd", "out-dir", "output", "stdout", "parallel"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should be registered", name)
	}
	assert.Equal(t, "text", cmd.Flags().Lookup("output").DefValue)
}

// stubFrontend type-checks cleanly except for roots matching failSuffix,
// which get an error diagnostic.
type stubFrontend struct {
	failSuffix string
}

func (f *stubFrontend) LoadConfig(string) (compiler.Options, error) {
	return compiler.Options{}, nil
}

func (f *stubFrontend) BuildProgram(_ context.Context, root string, opts compiler.Options) (*compiler.Program, error) {
	return &compiler.Program{Root: root, Files: []string{root}, Options: opts}, nil
}

func (f *stubFrontend) Diagnose(_ context.Context, prog *compiler.Program) ([]compiler.Diagnostic, error) {
	if f.failSuffix != "" && strings.HasSuffix(prog.Root, f.failSuffix) {
		return []compiler.Diagnostic{{
			Severity: compiler.SeverityError,
			File:     prog.Root,
			Line:     1,
			Col:      1,
			Code:     "TS2322",
			Message:  "type mismatch",
		}}, nil
	}
	return nil, nil
}

type stubService struct{}

func (stubService) Transform(_ context.Context, prog *compiler.Program, _ transform.Policy) (*transform.Output, error) {
	out := transform.NewOutput()
	out.AddCode(paths.Emitted(prog.Root), "var ok = 1;\n")
	return out, nil
}

func TestRunParallelKeepsFailedFilesInReport(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	l, err := loader.New(map[string]any{},
		loader.WithFrontend(&stubFrontend{failSuffix: "bad.ts"}),
		loader.WithService(stubService{}),
		loader.WithSink(&externs.Buffer{}),
	)
	require.NoError(t, err)

	report := &output.BuildReport{}
	err = runParallel(context.Background(), l, []string{"/src/bad.ts", "/src/good.ts"}, "dist", false, output.FormatJSON, report)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitDiagnostics, exitErr.Code)

	// Both files appear in the report, in input order, with the failure
	// recorded instead of silently dropped.
	require.Len(t, report.Files, 2)
	assert.Equal(t, "/src/bad.ts", report.Files[0].Source)
	assert.Empty(t, report.Files[0].Output)
	assert.Contains(t, report.Files[0].Error, "TS2322")
	assert.Equal(t, "/src/good.ts", report.Files[1].Source)
	assert.NotEmpty(t, report.Files[1].Output)
	assert.Empty(t, report.Files[1].Error)
}

func TestNewRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "version")

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}
