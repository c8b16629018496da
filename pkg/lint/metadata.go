package lint

import (
	"strings"
)

// DefaultDocsBaseURL is where rule pages are published.
const DefaultDocsBaseURL = "https://layerlint.dev/docs/rules"

var docsBaseURL = DefaultDocsBaseURL

// BuildDocURL returns the documentation page of a rule.
func BuildDocURL(ruleID string) string {
	return docsBaseURL + "/" + strings.ToLower(ruleID)
}

// SetDocsBaseURL points rule documentation at another site, e.g. a local
// copy. An empty url restores DefaultDocsBaseURL.
func SetDocsBaseURL(url string) {
	if url == "" {
		docsBaseURL = DefaultDocsBaseURL
		return
	}
	docsBaseURL = strings.TrimSuffix(url, "/")
}

// Impact ranks how much a finding erodes the architecture, 0-100. Tools
// sort by it when severities tie.
type Impact int

// Impact levels used by the built-in rules.
const (
	ImpactLow      Impact = 20 // stray files, shadowed patterns
	ImpactMedium   Impact = 50 // cycles, unclassified endpoints
	ImpactHigh     Impact = 70 // denied imports between elements
	ImpactCritical Impact = 90
)

// Score returns the impact as a plain number for Diagnostic.ImpactScore.
func (i Impact) Score() int {
	return int(i)
}
