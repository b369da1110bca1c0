package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rohanorton/tsickle-loader/internal/config"
	"github.com/rohanorton/tsickle-loader/internal/output"
)

var (
	// Global flags
	configFlag  string
	verboseFlag bool

	// CLI configuration (loaded during PersistentPreRunE)
	cliConfig *config.CLIConfig
)

// NewRootCmd creates the root command for the tsickle-loader CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tsickle-loader",
		Short:         "TypeScript-to-Closure build pipeline adapter",
		Long:          `tsickle-loader type-checks TypeScript sources, runs the tsickle transform, repairs known defects in the emitted code, and accumulates Closure externs into a shared artifact.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to CLI config file (env: TSL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads CLI configuration.
func initializeGlobals() error {
	output.SetupLogging(verboseFlag)

	cfg, err := config.NewLoader().Load(configFlag)
	if err != nil {
		return NewExitError(err, ExitConfigError)
	}
	cliConfig = cfg

	return nil
}

// getCLIConfig returns the loaded CLI configuration, never nil.
func getCLIConfig() *config.CLIConfig {
	if cliConfig == nil {
		return &config.CLIConfig{}
	}
	return cliConfig
}
