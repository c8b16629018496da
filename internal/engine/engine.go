// Package engine runs a layerlint check end to end: it builds the rule set
// from configuration, gathers the project's files and import edges, runs the
// boundaries reporter and the lint rules, and optionally records the run.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/leapstack-labs/layerlint/internal/config"
	"github.com/leapstack-labs/layerlint/internal/state"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"

	// Register the built-in lint rules.
	_ "github.com/leapstack-labs/layerlint/pkg/lint/rules"
)

// ErrNoInput is returned when there is neither a graph manifest nor file
// discovery to provide files.
var ErrNoInput = errors.New("no input: set graph or enable discover")

// Engine orchestrates one project's checks.
type Engine struct {
	root      string
	project   *config.ProjectConfig
	ruleSet   *boundaries.RuleSet
	lintCfg   *lint.Config
	threshold core.Severity
	logger    *slog.Logger

	// History store (lazy initialized)
	store   state.Store
	storeMu sync.Mutex
}

// Config holds engine configuration.
type Config struct {
	// Root is the project directory; file paths are relative to it.
	Root string
	// Project is the loaded project configuration. Nil uses defaults.
	Project *config.ProjectConfig
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New validates the configuration and compiles the rule set. Configuration
// errors are returned before any file is read.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	project := cfg.Project
	if project == nil {
		project = &config.ProjectConfig{}
	}
	project.ApplyDefaults()
	project.Graph = resolvePath(project.Graph, cfg.Root)
	project.History.Path = resolvePath(project.History.Path, cfg.Root)

	logger.Debug("initializing engine", "root", cfg.Root, "elements", len(project.Boundaries.Elements))

	rs, err := boundaries.NewRuleSet(project.Boundaries.RuleSetSpec())
	if err != nil {
		return nil, fmt.Errorf("invalid boundaries configuration:\n%w", err)
	}

	lintCfg, err := project.Lint.LintConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid lint configuration: %w", err)
	}
	threshold, err := project.Lint.ThresholdSeverity()
	if err != nil {
		return nil, fmt.Errorf("invalid lint configuration: %w", err)
	}

	for _, s := range rs.Shadows() {
		logger.Debug("shadowed element type", "type", s.Type, "shadowed_by", s.ShadowedBy, "role", s.Role)
	}

	return &Engine{
		root:      cfg.Root,
		project:   project,
		ruleSet:   rs,
		lintCfg:   lintCfg,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// resolvePath anchors a relative path at the project root.
func resolvePath(path, root string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if e.store != nil {
		err := e.store.Close()
		e.store = nil
		return err
	}
	return nil
}

// --- Getters (public accessors) ---

// Root returns the project directory.
func (e *Engine) Root() string {
	return e.root
}

// RuleSet returns the compiled rule set.
func (e *Engine) RuleSet() *boundaries.RuleSet {
	return e.ruleSet
}

// LintConfig returns the lint configuration. Callers may adjust it before
// running a check.
func (e *Engine) LintConfig() *lint.Config {
	return e.lintCfg
}

// Threshold returns the lowest severity that fails a check.
func (e *Engine) Threshold() core.Severity {
	return e.threshold
}

// SetThreshold overrides the failing severity.
func (e *Engine) SetThreshold(s core.Severity) {
	e.threshold = s
}

// Project returns the project configuration with defaults applied.
func (e *Engine) Project() *config.ProjectConfig {
	return e.project
}
