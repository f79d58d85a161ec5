package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/gallery-go/internal/cli"

	"github.com/spf13/cobra"
)

// NewHelp creates a detailed help command for the gallery client
func NewHelp(params *cli.CmdParams) *cobra.Command {
	var showAll bool

	helpCmd := &cobra.Command{
		Use:     "detailed_help",
		Aliases: []string{"h"},
		Short:   "Display detailed help for the gallery client",
		Long:    `Display detailed help information for the gallery client including command hierarchy and usage examples.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if showAll {
				// Display all available commands and their details
				fmt.Fprintln(out, "Gallery Client - Complete Command Reference")
				fmt.Fprintln(out, "===========================================")
				fmt.Fprintln(out, "\nAvailable Commands:")

				for _, c := range params.Palette {
					fmt.Fprintf(out, "- %s: %s\n", c.Use, c.Short)
					for _, sub := range c.Commands() {
						fmt.Fprintf(out, "    %s %s: %s\n", c.Name(), sub.Use, sub.Short)
					}
				}
				return
			}

			// Display basic help
			fmt.Fprintln(out, "Gallery Client")
			fmt.Fprintln(out, "==============")
			fmt.Fprintln(out, "\nMain Commands:")
			fmt.Fprintln(out, "  categories  List and manage categories")
			fmt.Fprintln(out, "  images      Browse, upload and manage images")
			fmt.Fprintln(out, "  config      Manage client configuration")
			fmt.Fprintln(out, "  cache       Manage the offline query cache")
			fmt.Fprintln(out, "\nExamples:")
			fmt.Fprintf(out, "  %s images list --category 2 --search sun\n", params.Use)
			fmt.Fprintf(out, "  %s images create --name Sunset --file ./sunset.jpg --category 2\n", params.Use)
			fmt.Fprintf(out, "\nUse '%s [command] --help' for more information about a command.\n", params.Use)
			fmt.Fprintf(out, "Use '%s detailed_help --all' to see all available commands.\n", params.Use)
		},
	}

	helpCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all commands")

	return helpCmd
}
