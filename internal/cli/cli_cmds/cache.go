package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewCache creates a command to manage the persisted query snapshots
func NewCache(params *cli.CmdParams) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline query cache",
		Long:  `Manage the query snapshots kept in cache.db_path for offline reads.`,
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every stored query snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}
			if app.Snapshots == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshot database configured (set cache.db_path)")
				return nil
			}

			n, err := app.Snapshots.Purge(cmd.Context())
			if err != nil {
				return err
			}
			params.Logger.Info(internal.ComponentStorage, "Purged %d query snapshots", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached queries\n", n)
			return nil
		},
	})

	return cacheCmd
}
