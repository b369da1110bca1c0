// Package config resolves the loader's compilation configuration from
// host-supplied options and the project configuration file.
package config

import (
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/externs"
	"github.com/rohanorton/tsickle-loader/internal/output"
)

// Defaults applied when the host omits an option.
const (
	// DefaultTSConfig is the project configuration file name.
	DefaultTSConfig = "tsconfig.json"

	// DefaultExternDir is the directory the externs artifact accumulates in.
	DefaultExternDir = "dist/externs"
)

// Options is the host-facing option schema. Both fields are optional and
// string-typed; anything else is a schema error raised before any file I/O.
type Options struct {
	// TSConfig is the project configuration file path.
	TSConfig string `mapstructure:"tsconfig"`

	// ExternDir is the directory the shared externs artifact lives in.
	ExternDir string `mapstructure:"externDir"`
}

// DecodeOptions validates raw host options against the schema.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: false,
	})
	if err != nil {
		return Options{}, errors.NewSchemaError(err.Error(), "")
	}
	if err := decoder.Decode(raw); err != nil {
		return Options{}, errors.NewSchemaError(err.Error(), offendingField(raw))
	}
	return opts, nil
}

// offendingField names the first schema-violating field for the error detail.
func offendingField(raw map[string]any) string {
	for _, key := range []string{"tsconfig", "externDir"} {
		if v, ok := raw[key]; ok {
			if _, isString := v.(string); !isString {
				return key
			}
		}
	}
	return ""
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.TSConfig == "" {
		o.TSConfig = DefaultTSConfig
	}
	if o.ExternDir == "" {
		o.ExternDir = DefaultExternDir
	}
	return o
}

// CompilationConfig is the fully-resolved configuration one invocation runs
// under. Constructed once per invocation and passed through the pipeline; no
// process-wide mutable state.
type CompilationConfig struct {
	// CompilerOptions is the opaque option set from the project config file.
	CompilerOptions compiler.Options

	// TSConfigPath is the resolved project configuration file path.
	TSConfigPath string

	// ExternDir is the resolved extern directory; it exists on disk by the
	// time Resolve returns.
	ExternDir string

	// ExternFile is ExternDir/externs.js, the shared append-only artifact.
	ExternFile string
}

// Resolve validates raw options, applies defaults, creates the extern
// directory, and loads the project configuration through the front-end's own
// config reader. Relative paths resolve against the current working
// directory.
func Resolve(raw map[string]any, fe compiler.Frontend) (*CompilationConfig, error) {
	opts, err := DecodeOptions(raw)
	if err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	tsconfigPath, err := filepath.Abs(opts.TSConfig)
	if err != nil {
		return nil, errors.NewConfigError("resolving tsconfig path", opts.TSConfig, err)
	}
	externDir, err := filepath.Abs(opts.ExternDir)
	if err != nil {
		return nil, errors.NewConfigError("resolving extern directory", opts.ExternDir, err)
	}

	// The extern directory must exist before any append is attempted.
	if err := externs.EnsureDir(externDir); err != nil {
		return nil, err
	}

	compilerOptions, err := fe.LoadConfig(tsconfigPath)
	if err != nil {
		return nil, err
	}

	cfg := &CompilationConfig{
		CompilerOptions: compilerOptions,
		TSConfigPath:    tsconfigPath,
		ExternDir:       externDir,
		ExternFile:      externs.DefaultFile(externDir),
	}

	output.Debug("configuration resolved",
		"tsconfig", cfg.TSConfigPath,
		"externFile", cfg.ExternFile,
	)

	return cfg, nil
}
