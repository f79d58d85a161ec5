package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
)

// ExecuteCommand runs root with args and returns everything it printed,
// notifications included when they share the command's writer
func ExecuteCommand(root *cobra.Command, args ...string) (output string, err error) {
	_, output, err = ExecuteCommandC(root, args...)
	return output, err
}

// ExecuteCommandWithInput runs root with args, answering prompts such as
// delete confirmations from input
func ExecuteCommandWithInput(root *cobra.Command, input string, args ...string) (output string, err error) {
	root.SetIn(strings.NewReader(input))
	defer root.SetIn(nil)
	return ExecuteCommand(root, args...)
}

// ExecuteCommandC runs root and returns the command that ran, its combined
// stdout and stderr, and any error
func ExecuteCommandC(root *cobra.Command, args ...string) (c *cobra.Command, output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	c, err = root.ExecuteC()

	return c, buf.String(), err
}
