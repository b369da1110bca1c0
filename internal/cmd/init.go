package cmd

import (
	"github.com/spf13/cobra"

	loadererrors "github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/templates"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var (
		forceFlag     bool
		externDirFlag string
		outDirFlag    string
		serviceFlag   string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a project configuration",
		Long: `Scaffold the files tsickle-loader needs in a project directory.

Creates:
  tsconfig.json          Project compiler configuration
  .tsickle-loader.yaml   CLI defaults (tsconfig, externDir, outDir, service)

Existing files are kept unless --force is given.

Examples:
  # Scaffold into the current directory
  tsickle-loader init

  # Scaffold into a project directory with a custom extern dir
  tsickle-loader init ./my-app --extern-dir build/externs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, templates.Data{
				ExternDir: externDirFlag,
				OutDir:    outDirFlag,
				Service:   serviceFlag,
			}, forceFlag)
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing files")
	cmd.Flags().StringVar(&externDirFlag, "extern-dir", "dist/externs", "Directory for the externs artifact")
	cmd.Flags().StringVar(&outDirFlag, "out-dir", DefaultOutDir, "Directory for corrected code")
	cmd.Flags().StringVar(&serviceFlag, "service", ServiceTypeScript, "Transform service: typescript, tsickle")

	return cmd
}

func runInit(dir string, data templates.Data, force bool) error {
	if _, err := selectService(data.Service, ""); err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	written, err := templates.Write(dir, data, force)
	if err != nil {
		return NewExitError(loadererrors.Wrap(loadererrors.ErrConfig, err.Error()), ExitConfigError)
	}

	if len(written) == 0 {
		output.Println("Nothing to do; files already exist (use --force to overwrite)")
		return nil
	}

	output.Println("Created files:")
	for _, f := range written {
		output.Println("  " + f)
	}
	output.Println("")
	output.Println("Next: tsickle-loader build <file.ts>")

	return nil
}
