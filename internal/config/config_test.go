package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	loadererrors "github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/testutil"
)

// stubFrontend serves canned compiler options for config tests.
type stubFrontend struct {
	opts compiler.Options
	err  error

	loadedPath string
}

func (s *stubFrontend) LoadConfig(path string) (compiler.Options, error) {
	s.loadedPath = path
	return s.opts, s.err
}

func (s *stubFrontend) BuildProgram(context.Context, string, compiler.Options) (*compiler.Program, error) {
	panic("not used")
}

func (s *stubFrontend) Diagnose(context.Context, *compiler.Program) ([]compiler.Diagnostic, error) {
	panic("not used")
}

func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDecodeOptions(t *testing.T) {
	opts, err := DecodeOptions(map[string]any{
		"tsconfig":  "custom.json",
		"externDir": "out/externs",
	})
	require.NoError(t, err)

	assert.Equal(t, "custom.json", opts.TSConfig)
	assert.Equal(t, "out/externs", opts.ExternDir)
}

func TestDecodeOptionsEmpty(t *testing.T) {
	opts, err := DecodeOptions(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, opts.TSConfig)
	assert.Empty(t, opts.ExternDir)
}

func TestDecodeOptionsSchemaViolation(t *testing.T) {
	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{"tsconfig not a string", map[string]any{"tsconfig": 42}, "tsconfig"},
		{"externDir not a string", map[string]any{"externDir": []string{"x"}}, "externDir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOptions(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, loadererrors.ErrSchema))

			var detail *loadererrors.DetailError
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.field, detail.Field)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	assert.Equal(t, DefaultTSConfig, opts.TSConfig)
	assert.Equal(t, DefaultExternDir, opts.ExternDir)

	set := Options{TSConfig: "t.json", ExternDir: "d"}.WithDefaults()
	assert.Equal(t, "t.json", set.TSConfig)
	assert.Equal(t, "d", set.ExternDir)
}

func TestResolveCreatesExternDir(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)

	fe := &stubFrontend{opts: compiler.Options{"target": "es5"}}
	cfg, err := Resolve(map[string]any{}, fe)
	require.NoError(t, err)

	info, statErr := os.Stat(cfg.ExternDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(cfg.ExternDir, "externs.js"), cfg.ExternFile)
	assert.Equal(t, compiler.Options{"target": "es5"}, cfg.CompilerOptions)
}

func TestResolveDefaultsAgainstCwd(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)

	fe := &stubFrontend{opts: compiler.Options{}}
	cfg, err := Resolve(map[string]any{}, fe)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.TSConfigPath))
	assert.Equal(t, filepath.Join(mustEvalDir(t, dir), DefaultTSConfig), cfg.TSConfigPath)
	assert.Equal(t, cfg.TSConfigPath, fe.loadedPath)
}

func TestResolvePropagatesConfigParseError(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)

	parseErr := loadererrors.NewConfigError("parsing tsconfig.json", "tsconfig.json", errors.New("bad json"))
	fe := &stubFrontend{err: parseErr}

	_, err := Resolve(map[string]any{}, fe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadererrors.ErrConfig))
}

func TestResolveSchemaErrorBeforeIO(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)

	fe := &stubFrontend{opts: compiler.Options{}}
	_, err := Resolve(map[string]any{"externDir": 7}, fe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadererrors.ErrSchema))

	// Schema failure happens before any directory creation.
	_, statErr := os.Stat(filepath.Join(dir, DefaultExternDir))
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, fe.loadedPath)
}

// mustEvalDir resolves symlinks so paths compare equal on platforms where
// temp dirs are symlinked.
func mustEvalDir(t *testing.T, dir string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return resolved
}

func TestLoaderLoadMissingFileUsesEnv(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)

	t.Setenv("TSL_SERVICE", "tsickle")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "tsickle", cfg.Service)
}

func TestLoaderLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cfg.yaml", "tsconfig: proj/tsconfig.json\nexternDir: build/externs\nservice: typescript\n")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "proj/tsconfig.json", cfg.TSConfig)
	assert.Equal(t, "build/externs", cfg.ExternDir)
	assert.Equal(t, "typescript", cfg.Service)
}

func TestResolveValuePrecedence(t *testing.T) {
	t.Setenv("TSL_TEST_KEY", "from-env")

	v, src := ResolveValue("from-flag", "TSL_TEST_KEY", "from-config", "from-default")
	assert.Equal(t, "from-flag", v)
	assert.Equal(t, SourceFlag, src)

	v, src = ResolveValue("", "TSL_TEST_KEY", "from-config", "from-default")
	assert.Equal(t, "from-env", v)
	assert.Equal(t, SourceEnv, src)

	v, src = ResolveValue("", "TSL_UNSET_KEY", "from-config", "from-default")
	assert.Equal(t, "from-config", v)
	assert.Equal(t, SourceConfig, src)

	v, src = ResolveValue("", "TSL_UNSET_KEY", "", "from-default")
	assert.Equal(t, "from-default", v)
	assert.Equal(t, SourceDefault, src)
}
