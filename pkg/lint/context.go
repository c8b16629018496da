package lint

import (
	"sync"

	"github.com/leapstack-labs/layerlint/internal/dag"
	"github.com/leapstack-labs/layerlint/internal/graph"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Context provides all data needed for analysis: the check report, the
// rule set it was produced with, and the import graph.
type Context struct {
	report *boundaries.Report
	rules  *boundaries.RuleSet
	config *Config

	graphOnce sync.Once
	graph     *dag.Graph
}

// NewContext creates a new analysis context. config may be nil.
func NewContext(report *boundaries.Report, rules *boundaries.RuleSet, config *Config) *Context {
	return &Context{report: report, rules: rules, config: config}
}

// Report returns the check report.
func (c *Context) Report() *boundaries.Report {
	return c.report
}

// RuleSet returns the compiled rule set.
func (c *Context) RuleSet() *boundaries.RuleSet {
	return c.rules
}

// Options returns the configured options of a rule.
func (c *Context) Options(ruleID string) Options {
	return c.config.Options(ruleID)
}

// Graph returns the import graph of the report, built on first use.
func (c *Context) Graph() *dag.Graph {
	c.graphOnce.Do(func() {
		m := &graph.Manifest{
			Files: make([]core.SourceFile, len(c.report.Files)),
			Edges: c.report.Edges,
		}
		// Report files include every edge endpoint.
		for i, f := range c.report.Files {
			m.Files[i] = core.SourceFile{Path: f.Path, Role: f.Role}
		}
		c.graph = m.Graph()
	})
	return c.graph
}
