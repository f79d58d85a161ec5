package cli_cmds

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// parseID reads a positional record id
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", format)
	}
}

// confirm asks question on the command's output and reads the answer from its input
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s? [y/N]: ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// reportStale prints a read failure when cached data is still shown.
// It returns err unchanged when there is nothing to show.
func reportStale(cmd *cobra.Command, params *cli.CmdParams, err error, haveData bool) error {
	if err == nil {
		return nil
	}
	if !haveData {
		return fmt.Errorf("%s: %w", models.Reason(err), err)
	}
	if params.Logger != nil {
		params.Logger.Debug(internal.ComponentCLI, "Read failed, showing cached data: %v", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s, showing cached data\n", models.Reason(err))
	return nil
}
