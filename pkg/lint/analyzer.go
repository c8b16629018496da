package lint

import (
	"log/slog"
	"sort"

	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Analyzer runs registered lint rules against a context.
type Analyzer struct {
	config *Config
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer. A nil config enables every rule with
// its default severity.
func NewAnalyzer(config *Config, logger *slog.Logger) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{config: config, logger: logger}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() *Config {
	return a.config
}

// Analyze runs all enabled rules and returns their diagnostics sorted by
// severity, file, rule and message.
func (a *Analyzer) Analyze(ctx *Context) []Diagnostic {
	diagnostics := []Diagnostic{}
	if ctx == nil || ctx.report == nil {
		return diagnostics
	}
	if ctx.config == nil {
		ctx.config = a.config
	}

	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		diags := rule.Check(ctx)
		for i := range diags {
			diags[i].RuleID = rule.ID
			diags[i].RuleName = rule.Name
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
			if diags[i].DocumentationURL == "" {
				diags[i].DocumentationURL = BuildDocURL(rule.ID)
			}
		}
		a.logger.Debug("rule checked", "rule", rule.ID, "diagnostics", len(diags))
		diagnostics = append(diagnostics, diags...)
	}

	SortDiagnostics(diagnostics)
	return diagnostics
}

// SortDiagnostics orders diagnostics by severity (most severe first), file,
// rule ID and message.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}

// AtOrAbove returns the diagnostics whose severity is at least threshold.
func AtOrAbove(diags []Diagnostic, threshold core.Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

// CountBySeverity tallies diagnostics per severity.
func CountBySeverity(diags []Diagnostic) map[core.Severity]int {
	counts := make(map[core.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
