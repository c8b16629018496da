package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

// severityLabel pads the severity name so messages line up.
func severityLabel(r *output.Renderer, sev core.Severity) string {
	return getSeverityStyle(r.Styles(), sev).Render(fmt.Sprintf("%-7s", sev.String()))
}

// fileDiagnostics is the diagnostics of one file.
type fileDiagnostics struct {
	Path        string
	Diagnostics []lint.Diagnostic
}

// groupByFile groups diagnostics by file, files in path order. Diagnostics
// keep their relative order.
func groupByFile(diags []lint.Diagnostic) []fileDiagnostics {
	index := make(map[string]int)
	var groups []fileDiagnostics
	for _, d := range diags {
		i, ok := index[d.File]
		if !ok {
			i = len(groups)
			index[d.File] = i
			groups = append(groups, fileDiagnostics{Path: d.File})
		}
		groups[i].Diagnostics = append(groups[i].Diagnostics, d)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Path < groups[j].Path
	})
	return groups
}

// summaryParts renders "3 errors, 2 warnings" for the non-zero counts.
func summaryParts(counts map[core.Severity]int) []string {
	var parts []string
	for _, sev := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo, core.SeverityHint} {
		n := counts[sev]
		if n == 0 {
			continue
		}
		name := sev.String()
		if n != 1 && sev != core.SeverityInfo {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	return parts
}

// formatCaptures renders captures as "a=x, b=y" in name order.
func formatCaptures(captures map[string]string) string {
	if len(captures) == 0 {
		return ""
	}
	names := make([]string, 0, len(captures))
	for name := range captures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + captures[name]
	}
	return strings.Join(parts, ", ")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
