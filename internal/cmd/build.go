package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rohanorton/tsickle-loader/internal/config"
	"github.com/rohanorton/tsickle-loader/internal/loader"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/paths"
	"github.com/rohanorton/tsickle-loader/internal/transform"
)

// Transform service names accepted by --service.
const (
	ServiceTypeScript = "typescript"
	ServiceTsickle    = "tsickle"
)

// DefaultOutDir is where corrected code lands when --out-dir is unset.
const DefaultOutDir = "dist"

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var (
		tsconfigFlag   string
		externDirFlag  string
		serviceFlag    string
		tsickleCmdFlag string
		outDirFlag     string
		outputFlag     string
		stdoutFlag     bool
		parallelFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Type-check and transform TypeScript files",
		Long: `Type-check TypeScript files, run the tsickle transform on each, repair
known defects in the output, and append each file's externs to the shared
externs artifact.

Each file is processed as its own compilation unit: the dependency closure is
rebuilt and re-checked per file, and only that file's output is kept.

Examples:
  # Transform one file with defaults (tsconfig.json, dist/externs)
  tsickle-loader build src/app.ts

  # Several files against an explicit project config
  tsickle-loader build --tsconfig ./proj/tsconfig.json src/a.ts src/b.ts

  # Use an external tsickle bridge instead of the embedded compiler
  tsickle-loader build --service tsickle --tsickle-cmd ./bin/bridge src/app.ts

  # Print corrected code to stdout, report as JSON
  tsickle-loader build --stdout -o json src/app.ts`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args, buildFlags{
				tsconfig:   tsconfigFlag,
				externDir:  externDirFlag,
				service:    serviceFlag,
				tsickleCmd: tsickleCmdFlag,
				outDir:     outDirFlag,
				format:     outputFlag,
				stdout:     stdoutFlag,
				parallel:   parallelFlag,
			})
		},
	}

	cmd.Flags().StringVar(&tsconfigFlag, "tsconfig", "", "Project configuration file (env: TSL_TSCONFIG)")
	cmd.Flags().StringVar(&externDirFlag, "extern-dir", "", "Directory for the externs artifact (env: TSL_EXTERN_DIR)")
	cmd.Flags().StringVar(&serviceFlag, "service", "", "Transform service: typescript, tsickle (env: TSL_SERVICE)")
	cmd.Flags().StringVar(&tsickleCmdFlag, "tsickle-cmd", "", "Bridge executable for the tsickle service (env: TSL_TSICKLE_COMMAND)")
	cmd.Flags().StringVar(&outDirFlag, "out-dir", "", "Directory for corrected code (env: TSL_OUT_DIR)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "Report format: text, json, yaml")
	cmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "Print corrected code to stdout instead of writing files")
	cmd.Flags().BoolVar(&parallelFlag, "parallel", false, "Process files concurrently")

	return cmd
}

type buildFlags struct {
	tsconfig   string
	externDir  string
	service    string
	tsickleCmd string
	outDir     string
	format     string
	stdout     bool
	parallel   bool
}

// runBuild executes the build command.
func runBuild(args []string, flags buildFlags) error {
	ctx := context.Background()
	cfg := getCLIConfig()

	format, valid := output.ParseFormat(flags.format)
	if !valid {
		return NewExitError(fmt.Errorf("invalid report format %q (valid: text, json, yaml)", flags.format), ExitGeneralError)
	}

	tsconfig, tsconfigSrc := config.ResolveValue(flags.tsconfig, "TSL_TSCONFIG", cfg.TSConfig, "")
	externDir, externSrc := config.ResolveValue(flags.externDir, "TSL_EXTERN_DIR", cfg.ExternDir, "")
	serviceName, _ := config.ResolveValue(flags.service, "TSL_SERVICE", cfg.Service, ServiceTypeScript)
	tsickleCmd, _ := config.ResolveValue(flags.tsickleCmd, "TSL_TSICKLE_COMMAND", cfg.TsickleCommand, transform.DefaultTsickleCommand)
	outDir, _ := config.ResolveValue(flags.outDir, "TSL_OUT_DIR", cfg.OutDir, DefaultOutDir)

	output.Debug("build settings resolved",
		"tsconfig", tsconfig, "tsconfigSource", tsconfigSrc,
		"externDir", externDir, "externDirSource", externSrc,
		"service", serviceName,
	)

	svc, err := selectService(serviceName, tsickleCmd)
	if err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	raw := map[string]any{}
	if tsconfig != "" {
		raw["tsconfig"] = tsconfig
	}
	if externDir != "" {
		raw["externDir"] = externDir
	}

	l, err := loader.New(raw, loader.WithService(svc))
	if err != nil {
		output.Error(err.Error())
		return &ExitError{Err: err, Code: ExitCodeFromError(err), Printed: true}
	}

	report := &output.BuildReport{ExternFile: l.Config().ExternFile}

	if flags.parallel {
		if err := runParallel(ctx, l, args, outDir, flags.stdout, format, report); err != nil {
			return err
		}
	} else {
		for _, arg := range args {
			fileReport, err := processFile(ctx, l, arg, outDir, flags.stdout)
			if err != nil {
				output.Error(err.Error())
				return &ExitError{Err: err, Code: ExitCodeFromError(err), Printed: true}
			}
			report.Files = append(report.Files, fileReport)

			if format == output.FormatText {
				output.Print(output.FormatCheckmark(fileReport.Source + " -> " + fileReport.Output))
			}
		}
	}

	if format != output.FormatText {
		rendered, err := report.Render(format)
		if err != nil {
			return NewExitError(err, ExitGeneralError)
		}
		fmt.Fprint(os.Stdout, rendered)
	}

	return nil
}

// runParallel processes all files via the loader's batch pool, then writes
// outputs sequentially. Failed files stay in the report with their error
// recorded; the first pipeline failure decides the exit code.
func runParallel(ctx context.Context, l *loader.Loader, args []string, outDir string, toStdout bool, format output.Format, report *output.BuildReport) error {
	results := l.ProcessAll(ctx, args)

	var firstErr error
	for _, r := range results {
		source := paths.Normalize(r.Source)
		fileReport := output.FileReport{
			Source:         source,
			ExternAppended: r.ExternAppended,
			Warnings:       r.Warnings,
		}
		for _, w := range r.Warnings {
			output.Warn(w)
		}

		if r.Err != nil {
			output.Error(r.Err.Error())
			fileReport.Error = r.Err.Error()
			report.Files = append(report.Files, fileReport)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		out, err := writeCode(r.Code, source, outDir, toStdout)
		if err != nil {
			output.Error(err.Error())
			fileReport.Error = err.Error()
			report.Files = append(report.Files, fileReport)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fileReport.Output = out
		report.Files = append(report.Files, fileReport)

		if format == output.FormatText {
			output.Print(output.FormatCheckmark(fileReport.Source + " -> " + fileReport.Output))
		}
	}

	if firstErr != nil {
		return &ExitError{Err: firstErr, Code: ExitCodeFromError(firstErr), Printed: true}
	}
	return nil
}

// processFile runs the pipeline for one file and writes its corrected code.
func processFile(ctx context.Context, l *loader.Loader, arg, outDir string, toStdout bool) (output.FileReport, error) {
	source := paths.Normalize(arg)
	report := output.FileReport{Source: source}

	host := loader.HostFuncs{
		OnWarning: func(msg string) {
			output.Warn(msg)
			report.Warnings = append(report.Warnings, msg)
		},
		// Errors reach the caller through Process's return value already.
		OnError: func(err error) {
			output.Debug("pipeline error", "file", source, "error", err)
		},
	}

	var res loader.Result
	err := output.RunWithSpinner(ctx, func() error {
		var perr error
		res, perr = l.Run(ctx, arg, host)
		return perr
	}, output.WithTitle("Transforming "+filepath.Base(arg)+"..."))
	if err != nil {
		return report, err
	}

	report.ExternAppended = res.ExternAppended

	out, err := writeCode(res.Code, source, outDir, toStdout)
	if err != nil {
		return report, err
	}
	report.Output = out

	return report, nil
}

// writeCode places corrected code on stdout or under outDir and returns the
// destination used.
func writeCode(code, source, outDir string, toStdout bool) (string, error) {
	if toStdout {
		fmt.Fprint(os.Stdout, code)
		return "-", nil
	}

	dest := filepath.Join(outDir, filepath.Base(paths.Emitted(source)))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	if err := os.WriteFile(dest, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}

// selectService maps a service name to a transform service.
func selectService(name, tsickleCmd string) (transform.Service, error) {
	switch strings.ToLower(name) {
	case ServiceTypeScript:
		return transform.NewTypeScriptService(), nil
	case ServiceTsickle:
		return transform.NewTsickleService(tsickleCmd), nil
	default:
		return nil, fmt.Errorf("unknown service %q (valid: %s, %s)", name, ServiceTypeScript, ServiceTsickle)
	}
}
