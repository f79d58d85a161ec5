package cli_cmds

import (
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"

	"github.com/spf13/cobra"
)

func GeneratePalette(params *cli.CmdParams) []*cobra.Command {

	// Global commands
	helpCmd := NewHelp(params)
	versionCmd := NewVersion(params)

	// Gallery commands
	categoriesCmd := NewCategories(params)
	imagesCmd := NewImages(params)

	// Utility commands
	configCmd := NewConfig(params)
	cacheCmd := NewCache(params)

	// Return all commands
	return []*cobra.Command{
		helpCmd,
		versionCmd,
		categoriesCmd,
		imagesCmd,
		configCmd,
		cacheCmd,
	}
}
