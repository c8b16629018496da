package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/internal/engine"
	"github.com/leapstack-labs/layerlint/internal/state"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

// ErrViolationsFound is returned when a check has diagnostics at or above
// the failure threshold.
var ErrViolationsFound = errors.New("boundary violations found")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format    string   // Output format: text, markdown, json
	Disable   []string // Rule IDs to disable
	Severity  string   // Minimum severity shown
	Threshold string   // Minimum severity that fails the check
	Record    bool     // Record the run in the history database
	Watch     bool     // Re-run on changes
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check imports against the architecture rules",
		Long: `Classify every project file into an element type and check every
import edge against the allow rules in layerlint.yaml.

Files come from the graph manifest and from project discovery; edges come
from the graph manifest. The command exits non-zero when a diagnostic
reaches the failure threshold (lint.threshold, default "error").

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the project
  layerlint check

  # Use another import graph
  layerlint check --graph build/imports.yaml

  # Fail on warnings too
  layerlint check --threshold warning

  # Ignore unknown files and cycles
  layerlint check --disable LB04,LB05

  # Record the run and re-check on every change
  layerlint check --record --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Watch {
				return runCheckWatch(cmd, opts)
			}
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity shown: error, warning, info, hint")
	cmd.Flags().StringVar(&opts.Threshold, "threshold", "", "Minimum severity that fails the check (default from lint.threshold)")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the history database")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the check when files change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = checkOnce(cmd.Context(), cmdCtx, cmdCtx.WithFormat(cmd, opts.Format), opts)
	return err
}

func checkOnce(ctx context.Context, cmdCtx *CommandContext, r *output.Renderer, opts *CheckOptions) (*engine.Result, error) {
	shown, err := applyCheckOptions(cmdCtx.Engine, opts)
	if err != nil {
		return nil, err
	}

	result, err := cmdCtx.Engine.Check(ctx, engine.CheckOptions{Record: opts.Record})
	if err != nil {
		return nil, err
	}

	if err := renderCheck(r, result, shown); err != nil {
		return result, err
	}
	if !result.Passed() {
		return result, ErrViolationsFound
	}
	return result, nil
}

// applyCheckOptions applies command-line overrides to the engine and returns
// the minimum severity to display.
func applyCheckOptions(eng *engine.Engine, opts *CheckOptions) (core.Severity, error) {
	for _, id := range opts.Disable {
		if id = strings.TrimSpace(id); id != "" {
			eng.LintConfig().Disable(id)
		}
	}

	if opts.Threshold != "" {
		sev, ok := core.ParseSeverity(opts.Threshold)
		if !ok {
			return 0, fmt.Errorf("invalid --threshold %q", opts.Threshold)
		}
		eng.SetThreshold(sev)
	}

	shown := core.SeverityHint
	if opts.Severity != "" {
		sev, ok := core.ParseSeverity(opts.Severity)
		if !ok {
			return 0, fmt.Errorf("invalid --severity %q", opts.Severity)
		}
		shown = sev
	}
	return shown, nil
}

// CheckSummary counts a check's inputs and findings.
type CheckSummary struct {
	Files      int    `json:"files"`
	Edges      int    `json:"edges"`
	Violations int    `json:"violations"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
	Info       int    `json:"info"`
	Hints      int    `json:"hints"`
	Threshold  string `json:"threshold"`
	Failing    int    `json:"failing"`
	Passed     bool   `json:"passed"`
}

// CheckJSONOutput is the JSON output structure for a check.
type CheckJSONOutput struct {
	Summary     CheckSummary      `json:"summary"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
	Violations  []core.Violation  `json:"violations"`
	Run         *state.Run        `json:"run,omitempty"`
}

func summarize(result *engine.Result) CheckSummary {
	counts := lint.CountBySeverity(result.Diagnostics)
	return CheckSummary{
		Files:      len(result.Report.Files),
		Edges:      len(result.Report.Edges),
		Violations: len(result.Report.Violations),
		Errors:     counts[core.SeverityError],
		Warnings:   counts[core.SeverityWarning],
		Info:       counts[core.SeverityInfo],
		Hints:      counts[core.SeverityHint],
		Threshold:  result.Threshold.String(),
		Failing:    len(result.Failing),
		Passed:     result.Passed(),
	}
}

func renderCheck(r *output.Renderer, result *engine.Result, shown core.Severity) error {
	diags := lint.AtOrAbove(result.Diagnostics, shown)
	summary := summarize(result)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if diags == nil {
			diags = []lint.Diagnostic{}
		}
		return r.JSON(CheckJSONOutput{
			Summary:     summary,
			Diagnostics: diags,
			Violations:  result.Report.Violations,
			Run:         result.Run,
		})
	case output.ModeMarkdown:
		renderCheckMarkdown(r, diags, summary)
	default:
		renderCheckText(r, diags, summary)
	}

	if result.Run != nil {
		r.Muted(fmt.Sprintf("Recorded run %s", shortID(result.Run.ID)))
	}
	return nil
}

func renderCheckText(r *output.Renderer, diags []lint.Diagnostic, summary CheckSummary) {
	styles := r.Styles()

	for _, group := range groupByFile(diags) {
		r.Println(styles.FilePath.Render(group.Path))
		for _, d := range group.Diagnostics {
			r.Printf("  %s  %s  %s\n",
				severityLabel(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
			for _, rel := range d.Related {
				r.Println(styles.Muted.Render("           → " + rel))
			}
		}
		r.Println("")
	}

	renderCheckSummary(r, diags, summary)
}

func renderCheckMarkdown(r *output.Renderer, diags []lint.Diagnostic, summary CheckSummary) {
	r.Header(1, "Check Results")

	for _, group := range groupByFile(diags) {
		r.Header(2, "`"+group.Path+"`")
		for _, d := range group.Diagnostics {
			line := fmt.Sprintf("- **%s** `%s` %s", d.Severity, d.RuleID, d.Message)
			if len(d.Related) > 0 {
				line += " (→ `" + strings.Join(d.Related, "`, `") + "`)"
			}
			r.Println(line)
		}
		r.Println("")
	}

	renderCheckSummary(r, diags, summary)
}

func renderCheckSummary(r *output.Renderer, diags []lint.Diagnostic, summary CheckSummary) {
	stats := fmt.Sprintf("%d files, %d imports checked", summary.Files, summary.Edges)
	if len(diags) == 0 {
		r.Success("No boundary violations found (" + stats + ")")
		return
	}

	parts := append([]string{fmt.Sprintf("%d issues", len(diags))}, summaryParts(lint.CountBySeverity(diags))...)
	r.Printf("Summary: %s in %d files (%s)\n", strings.Join(parts, ", "), len(groupByFile(diags)), stats)
	if summary.Passed {
		r.Success("Passed at threshold " + summary.Threshold)
	} else {
		r.Error(fmt.Sprintf("%d issues at or above %s", summary.Failing, summary.Threshold))
	}
}

func runCheckWatch(cmd *cobra.Command, opts *CheckOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.WithFormat(cmd, opts.Format)

	// last is the most recent completed check; its graph names the files a
	// change affects.
	var last *engine.Result
	run := func() {
		cmdCtx, cleanup, err := NewCommandContext(cmd)
		if err != nil {
			r.Error(err.Error())
			return
		}
		defer cleanup()

		result, err := checkOnce(ctx, cmdCtx, r, opts)
		if err != nil && !errors.Is(err, ErrViolationsFound) {
			r.Error(err.Error())
		}
		if result != nil {
			last = result
		}
	}

	run()

	w, err := newProjectWatcher(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r.Muted("Watching for changes (Ctrl+C to stop)...")
	return w.Run(ctx, func(changed []string) {
		r.Println("")
		r.Muted(fmt.Sprintf("Change detected: %s", strings.Join(changed, ", ")))
		if last != nil {
			if affected := w.Affected(last.Graph, changed); len(affected) > 0 {
				r.Muted(fmt.Sprintf("Affected files (%d): %s", len(affected), strings.Join(affected, ", ")))
			}
		}
		if w.ConfigChanged(changed) {
			if err := reloadConfig(cmd, cmdCtx); err != nil {
				r.Error(err.Error())
				return
			}
		}
		run()
	})
}
