package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli/cli_cmds"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Mutation failures have already been shown as notifications
		fmt.Fprintf(os.Stderr, "Error: %s\n", models.Reason(err))
		internal.GetLogger().Debug(internal.ComponentGeneral, "Error running client: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Setup the Root Command; configuration is loaded once flags are parsed
	rootParams := &cli.CmdParams{
		Palette: nil,
		Use:     internal.DefaultAppName,
		Alias:   internal.DefaultAppCMDShortCut,
		Short:   "Image gallery client",
		Long:    "Gallery - browse, upload and manage images and categories of a gallery REST API",
	}

	// Generate command palette
	palette := cli_cmds.GeneratePalette(rootParams)
	rootParams.Palette = palette

	// Create root command
	rootCmd := cli.NewRootCMD(rootParams)

	// Execute root command
	err := rootCmd.Root.ExecuteContext(ctx)
	if releaseErr := rootParams.Release(); err == nil {
		err = releaseErr
	}
	return err
}
