package cli_cmds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewConfig creates a command to manage the client configuration
func NewConfig(params *cli.CmdParams) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage client configuration",
		Long:  `View and modify the gallery client configuration settings.`,
	}

	// Add subcommands for different config operations
	configCmd.AddCommand(newConfigGet(params))
	configCmd.AddCommand(newConfigSet(params))
	configCmd.AddCommand(newConfigList(params))

	return configCmd
}

// newConfigGet creates a subcommand to get a specific config value
func newConfigGet(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long:  `Retrieve a specific configuration value by its dotted key, e.g. api.url.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])

			for _, s := range params.Config.Settings() {
				if s.Key == key {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", s.Key, s.Value)
					return nil
				}
			}
			return fmt.Errorf("config key '%s' not found", key)
		},
	}
}

// newConfigSet creates a subcommand to set a config value
func newConfigSet(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Long:  `Set or update a configuration value by key and persist it to the config file.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			value := args[1]

			if _, ok := params.Config.Get(key); !ok {
				return fmt.Errorf("config key '%s' not found", key)
			}

			path, err := internal.SaveConfig(params.Config, key, value)
			if err != nil {
				return err
			}
			params.Logger.Info(internal.ComponentConfig, "Set %s in %s", key, path)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s\n", path)
			return nil
		},
	}
}

// newConfigList creates a subcommand to list all config values
func newConfigList(params *cli.CmdParams) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  `Display all current configuration values. Secrets are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := params.Config.Settings()
			out := cmd.OutOrStdout()

			switch strings.ToLower(format) {
			case "json":
				values := make(map[string]interface{}, len(settings))
				for _, s := range settings {
					values[s.Key] = s.Value
				}
				return writeJSON(out, values)

			case "text":
				fmt.Fprintln(out, "Current Configuration:")
				fmt.Fprintln(out, "======================")
				if used := params.Config.FileUsed(); used != "" {
					fmt.Fprintf(out, "# %s\n", used)
				}
				for _, s := range settings {
					fmt.Fprintf(out, "%s = %v\n", s.Key, s.Value)
				}
				return nil

			default:
				return errors.New("unknown format " + format + " (use text or json)")
			}
		},
	}

	// Add flags
	listCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text or json)")

	return listCmd
}
