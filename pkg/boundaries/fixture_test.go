package boundaries_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

func elem(name, pat string, mode core.MatchMode, captures ...string) core.ElementTypeDef {
	return core.ElementTypeDef{Name: name, Pattern: pat, Mode: mode, Captures: captures}
}

func allow(types ...string) []boundaries.AllowSpec {
	specs := make([]boundaries.AllowSpec, len(types))
	for i, t := range types {
		specs[i] = boundaries.AllowSpec{Type: t}
	}
	return specs
}

func constrained(target string, captures map[string]string) boundaries.AllowSpec {
	return boundaries.AllowSpec{Type: target, Captures: captures}
}

// serviceSpec is the layered service layout used throughout these tests.
func serviceSpec() boundaries.RuleSetSpec {
	return boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("actionsTypes", "src/actions/**/*.types.ts", core.MatchFile, "version", "actionName"),
			elem("actions", "src/actions/**/*.ts", core.MatchFile, "version", "actionName"),
			elem("viewsTypes", "src/views/*types.ts", core.MatchFile),
			elem("views", "src/views/**", ""),
			elem("providersTypes", "src/providers/**/*types.ts", core.MatchFile, "providerName"),
			elem("providers", "src/providers/**", "", "providerName"),
			elem("repositories", "src/repositories/**", ""),
			elem("modelsTypes", "src/models/*.types.ts", core.MatchFile, "modelName"),
			elem("models", "src/models/*.ts", core.MatchFile, "modelName"),
			elem("servicesTypes", "src/services/**/*types.ts", core.MatchFile),
			elem("services", "src/services/**", ""),
			elem("configsTypes", "src/configs/*types.ts", core.MatchFile),
			elem("configs", "src/configs/**", ""),
			elem("tests", "tests/**", ""),
			elem("configFiles", "*.{json,md,mjs,mts}", core.MatchFull),
			elem("generated", "src/generated/**", ""),
		},
		Rules: []boundaries.RuleSpec{
			{From: []string{"actions"}, Allow: append(allow("services", "views", "generated"),
				constrained("actionsTypes", map[string]string{"actionName": "${from.actionName}"}))},
			{From: []string{"actionsTypes"}, Allow: allow("generated")},
			{From: []string{"services"}, Allow: allow("services", "servicesTypes", "providers", "providersTypes", "repositories", "modelsTypes", "configsTypes")},
			{From: []string{"providers"}, Allow: append(allow("configsTypes"),
				constrained("providersTypes", map[string]string{"providerName": "${from.providerName}"}))},
			{From: []string{"views"}, Allow: allow("viewsTypes", "servicesTypes", "modelsTypes", "generated")},
			{From: []string{"repositories"}, Allow: allow("models", "configsTypes", "modelsTypes")},
			{From: []string{"models"}, Allow: []boundaries.AllowSpec{
				constrained("modelsTypes", map[string]string{"modelName": "${from.modelName}"}),
			}},
			{From: []string{"tests"}, Allow: allow("*")},
			{From: []string{"servicesTypes"}, Allow: allow("servicesTypes", "modelsTypes")},
			{From: []string{"configs"}, Allow: allow("configsTypes")},
			{From: []string{"configsTypes"}, Allow: allow("configs")},
		},
	}
}

func mustRuleSet(t *testing.T, spec boundaries.RuleSetSpec) *boundaries.RuleSet {
	t.Helper()
	rs, err := boundaries.NewRuleSet(spec)
	require.NoError(t, err)
	return rs
}
