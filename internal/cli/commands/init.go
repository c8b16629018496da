package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize layerlint in a project",
		Long: `Initialize layerlint with a starter configuration.

This creates:
  - layerlint.yaml with a layered domain/app/infra example
  - .gitignore entry for the run history database

Use --example to create a small TypeScript project with an import graph,
element types with captures and two deliberate boundary violations.`,
		Example: `  # Initialize in current directory
  layerlint init

  # Initialize with a full working example
  layerlint init --example

  # Initialize in a new directory
  layerlint init my-project --example

  # Force overwrite existing config
  layerlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// init runs before a configuration exists, so it never loads one.
			r, ok := output.FromContext(cmd.Context())
			if !ok {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
			}

			tmpl := initTemplates["minimal"]
			if example {
				tmpl = initTemplates["example"]
			}
			if err := prepareInitDir(dir, force); err != nil {
				return err
			}
			if err := copyTemplate(tmpl.name, dir, force); err != nil {
				return fmt.Errorf("failed to initialize project: %w", err)
			}
			reportInit(r, tmpl)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example project with sources and an import graph")

	return cmd
}

// prepareInitDir creates dir and refuses to overwrite an existing
// configuration unless force is set.
func prepareInitDir(dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "layerlint.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("layerlint.yaml already exists. Use --force to overwrite")
	}
	return nil
}

// initTemplate describes an embedded project template and what to print
// once it has been written.
type initTemplate struct {
	name      string
	done      string
	nextSteps []string
	// sectioned prints files grouped under Configuration and Sources.
	sectioned bool
}

var initTemplates = map[string]initTemplate{
	"minimal": {
		name: "minimal",
		done: "layerlint initialized!",
		nextSteps: []string{
			"  1. Describe your element types in boundaries.elements",
			"  2. List allowed imports in boundaries.rules",
			"  3. Run 'layerlint classify' to check the patterns",
			"  4. Run 'layerlint check' to validate imports",
		},
	},
	"example": {
		name: "example",
		done: "layerlint example project created!",
		nextSteps: []string{
			"  layerlint elements   Show element types and allow rules",
			"  layerlint classify   Show how each file is classified",
			"  layerlint check      Validate the import graph",
			"  layerlint history    Show recorded runs",
		},
		sectioned: true,
	},
}

func reportInit(r *output.Renderer, tmpl initTemplate) {
	files, _ := listTemplateFiles(tmpl.name)
	if tmpl.sectioned {
		groups := groupTemplateFiles(files)
		for i, section := range []struct{ title, key string }{
			{"Configuration", "config"},
			{"Sources", "src"},
		} {
			if i > 0 {
				r.Println("")
			}
			r.Header(2, section.title)
			for _, f := range groups[section.key] {
				r.StatusLine(f, "success", "")
			}
		}
	} else {
		for _, f := range files {
			r.StatusLine(diskPath(f), "success", "")
		}
	}

	r.Println("")
	r.Success(tmpl.done)
	r.Println("")
	r.Println("Next steps:")
	for _, step := range tmpl.nextSteps {
		r.Println(step)
	}
}
