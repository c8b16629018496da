package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// ClassifyOptions holds options for the classify command.
type ClassifyOptions struct {
	Format       string
	Unclassified bool // Only show files no element type matched
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	opts := &ClassifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify [paths...]",
		Short: "Show the element type of files",
		Long: `Classify files into element types using the catalog in layerlint.yaml.

Paths are relative to the project root. Without arguments every discovered
project file is classified.`,
		Example: `  # Classify all project files
  layerlint classify

  # Classify specific files
  layerlint classify src/actions/v1/createUser.ts src/models/user.ts

  # List files that match no element type
  layerlint classify --unclassified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVarP(&opts.Unclassified, "unclassified", "u", false, "Only show unclassified files")

	return cmd
}

// ClassifyJSONOutput is the JSON output structure for classify.
type ClassifyJSONOutput struct {
	Files        []core.ElementInstance `json:"files"`
	Total        int                    `json:"total"`
	Unclassified int                    `json:"unclassified"`
}

func runClassify(cmd *cobra.Command, args []string, opts *ClassifyOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.WithFormat(cmd, opts.Format)

	paths := args
	if len(paths) == 0 {
		files, err := eng.Discover(cmd.Context())
		if err != nil {
			return err
		}
		paths = make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
	}

	instances, err := eng.Classify(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("failed to classify: %w", err)
	}

	unclassified := 0
	shown := make([]core.ElementInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.IsUnclassified() {
			unclassified++
		} else if opts.Unclassified {
			continue
		}
		shown = append(shown, inst)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ClassifyJSONOutput{
			Files:        shown,
			Total:        len(instances),
			Unclassified: unclassified,
		})
	}

	if len(shown) == 0 {
		r.Success(fmt.Sprintf("All %d files are classified", len(instances)))
		return nil
	}

	rows := make([][]string, len(shown))
	for i, inst := range shown {
		rows[i] = []string{inst.Path, inst.Type, formatCaptures(inst.Captures), inst.Role}
	}
	r.Table([]string{"Path", "Type", "Captures", "Role"}, rows)
	r.Muted(fmt.Sprintf("%d files, %d unclassified", len(instances), unclassified))
	return nil
}
