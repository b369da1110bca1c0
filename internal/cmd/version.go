package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohanorton/tsickle-loader/internal/config"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/transform"
	"github.com/rohanorton/tsickle-loader/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show tsickle-loader version information.

Displays:
  - CLI version, commit, and build date
  - Embedded TypeScript compiler version
  - tsickle bridge binary status, if one is installed`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()

	output.Println(fmt.Sprintf("tsickle-loader version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:     %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:      %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:         %s", info.GoVersion))
	output.Println(fmt.Sprintf("  TypeScript: %s", info.TSVersion))

	bridgeCmd, _ := config.ResolveValue("", "TSL_TSICKLE_COMMAND", getCLIConfig().TsickleCommand, transform.DefaultTsickleCommand)
	bridge := version.DetectBridge(bridgeCmd)
	output.Println(bridge.String())

	return nil
}
