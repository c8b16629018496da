package elements

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB04",
		Name:        "no-unknown-files",
		Group:       "boundaries",
		Description: "File matches no element type",
		Severity:    core.SeverityWarning,
		Check:       checkNoUnknownFiles,
		ConfigKeys:  []string{"ignore"},
		Rationale: `Every source file should belong to an element so that its imports are
checked. Unclassified files are often new folders nobody added to the
catalog.`,
		Fix: `Extend the element catalog, or list the file under the rule's "ignore" option.`,
	})
}

func checkNoUnknownFiles(ctx *lint.Context) []lint.Diagnostic {
	ignore := ctx.Options("LB04").Strings("ignore", nil)

	var diags []lint.Diagnostic
	for _, inst := range ctx.Report().Unclassified() {
		if ignored(inst.Path, ignore) {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity:    core.SeverityWarning,
			Message:     "File does not belong to any element type",
			File:        inst.Path,
			ImpactScore: lint.ImpactLow.Score(),
		})
	}
	return diags
}

func ignored(p string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, p); ok {
			return true
		}
	}
	return false
}
