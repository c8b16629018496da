package elements

import (
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

// fromViolations reports every violation with the given reason as one
// diagnostic against the importing file.
func fromViolations(ctx *lint.Context, reason core.Reason, sev core.Severity, impact lint.Impact, message func(core.Violation) string) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, v := range ctx.Report().Violations {
		if v.Reason != reason {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity:    sev,
			Message:     message(v),
			File:        v.From,
			Related:     []string{v.To},
			Violation:   &v,
			ImpactScore: impact.Score(),
		})
	}
	return diags
}
