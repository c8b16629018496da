package structure

import (
	"fmt"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB06",
		Name:        "shadowed-element",
		Group:       "structure",
		Description: "Element type declared after a broader pattern that claims its files",
		Severity:    core.SeverityWarning,
		Check:       checkShadowedElement,
		Rationale: `Classification is first match wins. A specific pattern declared after a
general one never gets a file, so its rules silently stop applying.`,
		BadExample: `elements:
  - {type: services, pattern: "src/services/**"}
  - {type: servicesTypes, pattern: "src/services/**/*types.ts", mode: file}`,
		GoodExample: `elements:
  - {type: servicesTypes, pattern: "src/services/**/*types.ts", mode: file}
  - {type: services, pattern: "src/services/**"}`,
		Fix: "Declare the more specific element type first.",
	})
}

func checkShadowedElement(ctx *lint.Context) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, s := range ctx.RuleSet().Shadows() {
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityWarning,
			Message: fmt.Sprintf("Element type '%s' is shadowed by '%s' declared earlier (e.g. %s)",
				s.Type, s.ShadowedBy, s.Sample),
			ImpactScore: lint.ImpactLow.Score(),
		})
	}
	return diags
}
