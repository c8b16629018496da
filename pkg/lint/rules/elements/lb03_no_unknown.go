package elements

import (
	"fmt"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB03",
		Name:        "no-unknown",
		Group:       "boundaries",
		Description: "Import to or from a file that matches no element type",
		Severity:    core.SeverityError,
		Check:       checkNoUnknown,
		Reason:      core.ReasonUnclassifiedEndpoint,
		Rationale: `Files outside every element pattern have no layer, so no rule can vouch
for their imports. They are denied unless a rule explicitly covers
"unclassified".`,
		Fix: `Add an element type whose pattern covers the file, or add a rule for
"unclassified" (or allow_unclassified on a "*" rule).`,
	})
}

func checkNoUnknown(ctx *lint.Context) []lint.Diagnostic {
	return fromViolations(ctx, core.ReasonUnclassifiedEndpoint, core.SeverityError, lint.ImpactMedium, func(v core.Violation) string {
		if v.FromType == core.Unclassified {
			return fmt.Sprintf("Importing file '%s' is not allowed from an unclassified file", v.To)
		}
		return fmt.Sprintf("Importing unclassified file '%s' is not allowed in elements of type '%s'", v.To, v.FromType)
	})
}
