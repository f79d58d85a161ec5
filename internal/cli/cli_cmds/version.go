package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"

	"github.com/spf13/cobra"
)

// NewVersion creates a version command for the gallery client
func NewVersion(params *cli.CmdParams) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of the gallery client",
		Long:  `Print the version information for the gallery client including build details.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Gallery Client")
			fmt.Fprintln(cmd.OutOrStdout(), "==============")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", internal.VersionInfo())
		},
	}

	return versionCmd
}
