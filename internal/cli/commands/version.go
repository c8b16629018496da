package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/pkg/lint"
	_ "github.com/leapstack-labs/layerlint/pkg/lint/rules" // register built-in rules
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the layerlint version",
		Long:  `Print the layerlint version and the number of built-in lint rules.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "layerlint v%s (%d lint rules)\n", version, lint.Count())
		},
	}
}
