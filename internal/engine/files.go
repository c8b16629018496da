package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/layerlint/internal/discover"
	"github.com/leapstack-labs/layerlint/internal/graph"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// FileSet is the input of a check: the manifest's files and edges merged
// with the discovered files.
type FileSet struct {
	Files []core.SourceFile
	Edges []core.ImportEdge

	// Statistics
	ManifestFiles   int
	DiscoveredFiles int
	Duration        time.Duration
}

// Summary returns a human-readable summary.
func (s *FileSet) Summary() string {
	return fmt.Sprintf("Files: %d (%d from manifest, %d discovered) | Edges: %d | Duration: %s",
		len(s.Files), s.ManifestFiles, s.DiscoveredFiles, len(s.Edges), s.Duration.Round(time.Millisecond))
}

// Files gathers the files and edges to check. The graph manifest provides
// edges and, with roles, files; discovery adds the remaining project files.
func (e *Engine) Files(ctx context.Context) (*FileSet, error) {
	start := time.Now()

	m := &graph.Manifest{}
	if e.project.Graph != "" {
		loaded, err := graph.Load(e.project.Graph)
		if err != nil {
			return nil, err
		}
		m = loaded
		e.logger.Debug("loaded graph manifest", "path", e.project.Graph, "files", len(m.Files), "edges", len(m.Edges))
	}
	set := &FileSet{ManifestFiles: len(m.Files)}

	if e.project.Discover.Enabled {
		discovered, err := e.Discover(ctx)
		if err != nil {
			return nil, err
		}
		before := len(m.Files)
		m.Merge(discovered)
		set.DiscoveredFiles = len(m.Files) - before
	} else if e.project.Graph == "" {
		return nil, ErrNoInput
	}

	set.Files = m.Files
	set.Edges = m.Edges
	set.Duration = time.Since(start)
	e.logger.Debug("gathered files", "summary", set.Summary())
	return set, nil
}

// Discover walks the project root with the configured include and ignore
// globs. Roles come from the rule set.
func (e *Engine) Discover(ctx context.Context) ([]core.SourceFile, error) {
	files, err := discover.Files(ctx, discover.Options{
		Root:    e.root,
		Include: e.project.Discover.Include,
		Ignore:  e.project.Discover.Ignore,
		Exclude: discover.DatabaseFiles(e.root, e.project.History.Path),
		RoleOf:  e.ruleSet.RoleOf,
		Logger:  e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	return files, nil
}
