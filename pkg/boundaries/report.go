package boundaries

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

// Report is the result of one check.
type Report struct {
	// Files holds one classification per file, in input order. Edge
	// endpoints missing from the input are appended after the input files.
	Files []core.ElementInstance `json:"files"`
	// Edges are the normalized input edges.
	Edges []core.ImportEdge `json:"edges"`
	// Violations are the denied edges, in edge order.
	Violations []core.Violation `json:"violations"`
	// Shadows are the catalog entries shadowed by earlier entries.
	Shadows []Shadow `json:"shadows,omitempty"`
	// RuleSetHash identifies the rule set the report was produced with.
	RuleSetHash string `json:"ruleset_hash"`

	index map[string]int
}

// Instance returns the classification of a path.
func (r *Report) Instance(p string) (core.ElementInstance, bool) {
	i, ok := r.index[pattern.NormalizePath(p)]
	if !ok {
		return core.ElementInstance{}, false
	}
	return r.Files[i], true
}

// Unclassified returns the files no element type matched, in file order.
func (r *Report) Unclassified() []core.ElementInstance {
	var out []core.ElementInstance
	for _, f := range r.Files {
		if f.IsUnclassified() {
			out = append(out, f)
		}
	}
	return out
}

// CountByReason tallies violations per reason.
func (r *Report) CountByReason() map[core.Reason]int {
	counts := make(map[core.Reason]int)
	for _, v := range r.Violations {
		counts[v.Reason]++
	}
	return counts
}

// Reporter runs classification and validation over a whole project and
// collects the denials.
type Reporter struct {
	rs         *RuleSet
	classifier *Classifier
	validator  *Validator
	opts       Options
}

// NewReporter creates a reporter for a rule set.
func NewReporter(rs *RuleSet, opts Options) *Reporter {
	return &Reporter{
		rs:         rs,
		classifier: NewClassifier(rs, opts),
		validator:  NewValidator(rs),
		opts:       opts,
	}
}

// Check classifies files, validates every edge and returns the report.
// Findings never abort the run; an error means the engine itself failed
// or ctx was cancelled.
func (r *Reporter) Check(ctx context.Context, files []core.SourceFile, edges []core.ImportEdge) (*Report, error) {
	logger := r.opts.logger()
	start := time.Now()

	files, edges = r.prepare(files, edges)

	instances, err := r.classifier.ClassifyAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	report := &Report{
		Files:       instances,
		Edges:       edges,
		Shadows:     r.rs.Shadows(),
		RuleSetHash: r.rs.Hash(),
		index:       make(map[string]int, len(instances)),
	}
	for i, inst := range instances {
		report.index[inst.Path] = i
	}

	decisions := make([]Decision, len(edges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.limit())
	for i, edge := range edges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			from, _ := report.Instance(edge.From)
			to, _ := report.Instance(edge.To)
			d, err := r.validator.Validate(edge, from, to)
			if err != nil {
				return fmt.Errorf("edge %d (%s -> %s): %w", i, edge.From, edge.To, err)
			}
			decisions[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Violations = make([]core.Violation, 0)
	for i, d := range decisions {
		if d.Allowed {
			continue
		}
		v := *d.Violation
		v.EdgeIndex = i
		report.Violations = append(report.Violations, v)
	}

	logger.Debug("boundaries check complete",
		"files", len(instances),
		"edges", len(edges),
		"violations", len(report.Violations),
		"duration", time.Since(start))
	return report, nil
}

// prepare normalizes paths and appends edge endpoints missing from files.
// The first occurrence of a duplicate file wins.
func (r *Reporter) prepare(files []core.SourceFile, edges []core.ImportEdge) ([]core.SourceFile, []core.ImportEdge) {
	seen := make(map[string]bool, len(files))
	outFiles := make([]core.SourceFile, 0, len(files))
	add := func(f core.SourceFile) {
		f.Path = pattern.NormalizePath(f.Path)
		if f.Path == "" || seen[f.Path] {
			return
		}
		seen[f.Path] = true
		outFiles = append(outFiles, f)
	}

	for _, f := range files {
		add(f)
	}

	outEdges := make([]core.ImportEdge, len(edges))
	for i, e := range edges {
		e.From = pattern.NormalizePath(e.From)
		e.To = pattern.NormalizePath(e.To)
		outEdges[i] = e
		add(core.SourceFile{Path: e.From})
		add(core.SourceFile{Path: e.To})
	}
	return outFiles, outEdges
}
