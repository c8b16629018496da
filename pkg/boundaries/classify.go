package boundaries

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

// Options tunes the parallel stages of a check.
type Options struct {
	// Parallelism bounds concurrent workers. Zero or less uses GOMAXPROCS.
	Parallelism int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

func (o Options) limit() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Classifier assigns element types to files.
type Classifier struct {
	rs   *RuleSet
	opts Options
}

// NewClassifier creates a classifier over a compiled rule set.
func NewClassifier(rs *RuleSet, opts Options) *Classifier {
	return &Classifier{rs: rs, opts: opts}
}

// Classify classifies a file path, picking its role from the rule set.
func (c *Classifier) Classify(p string) core.ElementInstance {
	return c.ClassifyFile(core.SourceFile{Path: p})
}

// ClassifyFile classifies one file. Catalogs are tried in declared order and
// the first match wins; a role-specific catalog is tried before the default one.
func (c *Classifier) ClassifyFile(f core.SourceFile) core.ElementInstance {
	p := pattern.NormalizePath(f.Path)
	roleName := f.Role
	if roleName == "" {
		roleName = c.rs.RoleOf(p)
	}

	for _, matchers := range c.rs.catalog(roleName) {
		for _, m := range matchers {
			if mt, ok := m.Match(p, false); ok {
				return core.NewElementInstance(m.Def().Name, p, roleName, mt.Captures)
			}
		}
	}
	return core.UnclassifiedInstance(p, roleName)
}

// ClassifyAll classifies files concurrently. Results are in input order.
func (c *Classifier) ClassifyAll(ctx context.Context, files []core.SourceFile) ([]core.ElementInstance, error) {
	out := make([]core.ElementInstance, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.limit())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = c.ClassifyFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.opts.logger().Debug("classified files", "count", len(files))
	return out, nil
}
