package elements

import (
	"fmt"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB01",
		Name:        "element-types/no-allow-entry",
		Group:       "boundaries",
		Description: "Import between element types that no rule allows",
		Severity:    core.SeverityError,
		Check:       checkNoAllowEntry,
		Reason:      core.ReasonNoAllowEntry,
		Rationale: `Element types form layers. An import is only legal when a rule of the
importing type names the imported type (or "*"). Anything else is denied by
default so that new dependencies are an explicit decision.`,
		BadExample: `rules:
  - from: [views]
    allow: [viewsTypes]
# src/views/home.tsx imports src/models/user.ts -> denied`,
		GoodExample: `rules:
  - from: [views]
    allow: [viewsTypes, modelsTypes]
# src/views/home.tsx imports src/models/user.types.ts -> allowed`,
		Fix: "Import through a layer the source may depend on, or add the target type to the source's allow list.",
	})
}

func checkNoAllowEntry(ctx *lint.Context) []lint.Diagnostic {
	return fromViolations(ctx, core.ReasonNoAllowEntry, core.SeverityError, lint.ImpactHigh, func(v core.Violation) string {
		return fmt.Sprintf("Importing elements of type '%s' is not allowed in elements of type '%s' (%s)", v.ToType, v.FromType, v.To)
	})
}
