package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/layerlint/internal/dag"
	"github.com/leapstack-labs/layerlint/internal/state"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

// CheckOptions tunes a single check.
type CheckOptions struct {
	// Record stores the run in the history database even when history is
	// disabled in configuration.
	Record bool
}

// Result is the outcome of a check.
type Result struct {
	Report      *boundaries.Report `json:"report"`
	Diagnostics []lint.Diagnostic  `json:"diagnostics"`
	// Failing are the diagnostics at or above Threshold.
	Failing   []lint.Diagnostic `json:"-"`
	Threshold core.Severity     `json:"threshold"`
	// Graph is the import graph the check ran over.
	Graph *dag.Graph `json:"-"`
	// Run is set when the check was recorded.
	Run      *state.Run    `json:"run,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Passed reports whether no diagnostic reached the threshold.
func (r *Result) Passed() bool {
	return len(r.Failing) == 0
}

// Check gathers the project's files and runs a full check over them.
func (e *Engine) Check(ctx context.Context, opts CheckOptions) (*Result, error) {
	set, err := e.Files(ctx)
	if err != nil {
		return nil, err
	}
	return e.CheckFiles(ctx, set.Files, set.Edges, opts)
}

// CheckFiles runs a check over the given files and edges.
func (e *Engine) CheckFiles(ctx context.Context, files []core.SourceFile, edges []core.ImportEdge, opts CheckOptions) (*Result, error) {
	start := time.Now()
	e.logger.Info("starting check", "files", len(files), "edges", len(edges))

	reporter := boundaries.NewReporter(e.ruleSet, boundaries.Options{
		Parallelism: e.project.Parallelism,
		Logger:      e.logger,
	})
	report, err := reporter.Check(ctx, files, edges)
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}

	lctx := lint.NewContext(report, e.ruleSet, e.lintCfg)
	diags := lint.NewAnalyzer(e.lintCfg, e.logger).Analyze(lctx)
	g := lctx.Graph()
	e.logger.Debug("import graph", "files", g.NodeCount(), "imports", g.EdgeCount())

	result := &Result{
		Graph:       g,
		Report:      report,
		Diagnostics: diags,
		Failing:     lint.AtOrAbove(diags, e.threshold),
		Threshold:   e.threshold,
	}

	if opts.Record || e.project.History.Enabled {
		run, err := e.record(ctx, report)
		if err != nil {
			return nil, err
		}
		result.Run = run
	}

	result.Duration = time.Since(start)
	e.logger.Info("check complete",
		"violations", len(report.Violations),
		"diagnostics", len(diags),
		"failing", len(result.Failing),
		"duration", result.Duration)
	return result, nil
}

// Classify classifies paths with the project's rule set. Paths are
// normalized relative to the project root.
func (e *Engine) Classify(ctx context.Context, paths []string) ([]core.ElementInstance, error) {
	files := make([]core.SourceFile, len(paths))
	for i, p := range paths {
		files[i] = core.SourceFile{Path: p}
	}
	c := boundaries.NewClassifier(e.ruleSet, boundaries.Options{
		Parallelism: e.project.Parallelism,
		Logger:      e.logger,
	})
	return c.ClassifyAll(ctx, files)
}
