package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// runCommand executes cmd with args and returns what it wrote to stdout and
// stderr. Usage and error printing are silenced as the root command does.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
