package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/internal/state"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// ErrAmbiguousRun is returned when a run ID prefix matches more than one run.
var ErrAmbiguousRun = errors.New("ambiguous run id")

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Format string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded check runs",
		Long: `Show check runs recorded in the history database.

Runs are recorded by 'layerlint check --record', or by every check when
history.enabled is set. Use 'history diff' to compare two runs.`,
		Example: `  # List the last 10 runs
  layerlint history

  # Compare the two most recent runs
  layerlint history diff

  # Keep only the newest 20 runs
  layerlint history prune --keep 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Maximum number of runs to show (0 for all)")

	cmd.AddCommand(newHistoryDiffCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

// HistoryJSONOutput is the JSON output of the history command.
type HistoryJSONOutput struct {
	Runs  []*state.Run `json:"runs"`
	Count int          `json:"count"`
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.WithFormat(cmd, opts.Format)

	store, err := cmdCtx.Engine.History()
	if err != nil {
		return err
	}
	runs, err := store.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(HistoryJSONOutput{Runs: runs, Count: len(runs)})
	}

	if len(runs) == 0 {
		r.Muted("No recorded runs. Use 'layerlint check --record' to record one.")
		return nil
	}

	r.Header(1, "Check History")
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.FileCount),
			fmt.Sprintf("%d", run.EdgeCount),
			fmt.Sprintf("%d", run.ViolationCount),
			shortID(run.RuleSetHash),
		})
	}
	r.Table([]string{"Run", "Started", "Files", "Imports", "Violations", "Rules"}, rows)
	return nil
}

// HistoryDiffOptions holds options for the history diff command.
type HistoryDiffOptions struct {
	Format string
}

func newHistoryDiffCommand() *cobra.Command {
	opts := &HistoryDiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff [from] [to]",
		Short: "Compare the violations of two runs",
		Long: `Compare the violations of two recorded runs.

Without arguments the two most recent runs are compared. With one argument
that run is compared with the most recent one. Run IDs may be abbreviated to
any unique prefix.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDiff(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func runHistoryDiff(cmd *cobra.Command, args []string, opts *HistoryDiffOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.WithFormat(cmd, opts.Format)

	store, err := cmdCtx.Engine.History()
	if err != nil {
		return err
	}

	fromID, toID, err := resolveDiffRuns(cmd.Context(), store, args)
	if err != nil {
		return err
	}

	diff, err := store.DiffRuns(cmd.Context(), fromID, toID)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if diff.New == nil {
			diff.New = []core.Violation{}
		}
		if diff.Resolved == nil {
			diff.Resolved = []core.Violation{}
		}
		return r.JSON(diff)
	}

	r.Header(1, fmt.Sprintf("Run %s → %s", shortID(diff.From.ID), shortID(diff.To.ID)))
	if diff.From.RuleSetHash != diff.To.RuleSetHash {
		r.Warning("Boundary rules changed between these runs")
	}

	if len(diff.New) == 0 && len(diff.Resolved) == 0 {
		r.Success("No changes in violations")
		return nil
	}

	renderViolationList(r, "New", diff.New)
	renderViolationList(r, "Resolved", diff.Resolved)
	r.Muted(fmt.Sprintf("%d new, %d resolved", len(diff.New), len(diff.Resolved)))
	return nil
}

func renderViolationList(r *output.Renderer, title string, violations []core.Violation) {
	if len(violations) == 0 {
		return
	}
	r.Header(2, fmt.Sprintf("%s (%d)", title, len(violations)))
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, []string{v.From, v.To, string(v.Reason)})
	}
	r.Table([]string{"From", "To", "Reason"}, rows)
}

// resolveDiffRuns maps the diff arguments to full run IDs.
func resolveDiffRuns(ctx context.Context, store state.Store, args []string) (string, string, error) {
	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return "", "", err
	}

	switch len(args) {
	case 0:
		if len(runs) < 2 {
			return "", "", fmt.Errorf("need at least two recorded runs to diff, found %d", len(runs))
		}
		return runs[1].ID, runs[0].ID, nil
	case 1:
		if len(runs) == 0 {
			return "", "", fmt.Errorf("%w: %s", state.ErrNotFound, args[0])
		}
		from, err := matchRun(runs, args[0])
		if err != nil {
			return "", "", err
		}
		return from, runs[0].ID, nil
	default:
		from, err := matchRun(runs, args[0])
		if err != nil {
			return "", "", err
		}
		to, err := matchRun(runs, args[1])
		if err != nil {
			return "", "", err
		}
		return from, to, nil
	}
}

// matchRun finds the run whose ID starts with prefix.
func matchRun(runs []*state.Run, prefix string) (string, error) {
	var match string
	for _, run := range runs {
		if run.ID == prefix {
			return run.ID, nil
		}
		if strings.HasPrefix(run.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
			}
			match = run.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", state.ErrNotFound, prefix)
	}
	return match, nil
}

// HistoryPruneOptions holds options for the history prune command.
type HistoryPruneOptions struct {
	Keep int
}

func newHistoryPruneCommand() *cobra.Command {
	opts := &HistoryPruneOptions{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			keep := opts.Keep
			if !cmd.Flags().Changed("keep") {
				keep = cmdCtx.Cfg.History.Keep
			}
			if keep <= 0 {
				return fmt.Errorf("--keep must be positive, got %d", keep)
			}

			store, err := cmdCtx.Engine.History()
			if err != nil {
				return err
			}
			removed, err := store.PruneRuns(cmd.Context(), keep)
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Removed %d runs, kept the newest %d", removed, keep))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "Number of runs to keep (default history.keep)")
	return cmd
}
