package boundaries_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/layerlint/internal/testutil"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

func TestEndToEnd_ActionsExample(t *testing.T) {
	rs := mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("actionsTypes", "src/actions/**/*.types.ts", "", "version", "actionName"),
			elem("actions", "src/actions/**/*.ts", "", "version", "actionName"),
		},
		Rules: []boundaries.RuleSpec{
			{From: []string{"actions"}, Allow: []boundaries.AllowSpec{
				constrained("actionsTypes", map[string]string{
					"version":    "${from.version}",
					"actionName": "${from.actionName}",
				}),
			}},
		},
	})

	edges := []core.ImportEdge{
		{From: "src/actions/v1/createUser.ts", To: "src/actions/v1/createUser.types.ts"},
		{From: "src/actions/v1/createUser.ts", To: "src/actions/v2/deleteUser.types.ts"},
	}

	report, err := boundaries.NewReporter(rs, boundaries.Options{Logger: testutil.NewTestLogger(t)}).
		Check(context.Background(), nil, edges)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, core.ReasonCaptureMismatch, v.Reason)
	assert.Equal(t, 1, v.EdgeIndex)
	assert.Equal(t, "actions", v.FromType)
	assert.Equal(t, "actionsTypes", v.ToType)
	assert.Equal(t, []core.CaptureMismatch{
		{Capture: "actionName", Expected: "createUser", Actual: "deleteUser"},
		{Capture: "version", Expected: "v1", Actual: "v2"},
	}, v.Mismatches)
}

func TestClassify_Deterministic(t *testing.T) {
	c := boundaries.NewClassifier(mustRuleSet(t, serviceSpec()), boundaries.Options{})

	first := c.Classify("src/providers/sms/client.ts")
	for range 50 {
		assert.Equal(t, first, c.Classify("src/providers/sms/client.ts"))
	}
	assert.Equal(t, "providers", first.Type)
	assert.Equal(t, map[string]string{"providerName": "sms"}, first.Captures)
}

func TestClassify_Catalog(t *testing.T) {
	c := boundaries.NewClassifier(mustRuleSet(t, serviceSpec()), boundaries.Options{})

	tests := []struct {
		path     string
		wantType string
		captures map[string]string
	}{
		{"src/actions/v1/createUser.types.ts", "actionsTypes", map[string]string{"version": "v1", "actionName": "createUser"}},
		{"src/actions/v1/createUser.ts", "actions", map[string]string{"version": "v1", "actionName": "createUser"}},
		{"src/models/user.types.ts", "modelsTypes", map[string]string{"modelName": "user"}},
		{"src/models/user.ts", "models", map[string]string{"modelName": "user"}},
		{"src/providers/sms/types.ts", "providersTypes", map[string]string{"providerName": "sms"}},
		{"src/services/user/index.ts", "services", nil},
		{"src/views/page.ts", "views", nil},
		{"src/views/pagetypes.ts", "viewsTypes", nil},
		{"tests/unit/user.test.ts", "tests", nil},
		{"package.json", "configFiles", nil},
		{"scripts/seed.ts", core.Unclassified, nil},
		{`src\services\user\index.ts`, "services", nil},
		{"../src/models/user.ts", core.Unclassified, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := c.Classify(tt.path)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.captures, got.Captures)
			assert.Equal(t, pattern.NormalizePath(tt.path), got.Path)
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	specific := elem("modelsTypes", "src/models/*.types.ts", core.MatchFile, "modelName")
	general := elem("models", "src/models/*.ts", core.MatchFile, "modelName")

	ordered := boundaries.NewClassifier(mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{specific, general},
	}), boundaries.Options{})
	assert.Equal(t, "modelsTypes", ordered.Classify("src/models/user.types.ts").Type)

	reversed := boundaries.NewClassifier(mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{general, specific},
	}), boundaries.Options{})
	got := reversed.Classify("src/models/user.types.ts")
	assert.Equal(t, "models", got.Type)
	assert.Equal(t, "user.types", got.Captures["modelName"])
}

func TestClassify_FirstMatchWinsAcrossModes(t *testing.T) {
	c := boundaries.NewClassifier(mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("entry", "src/app/main.ts", core.MatchFile),
			elem("app", "src/app", core.MatchFolder),
		},
	}), boundaries.Options{})

	assert.Equal(t, "entry", c.Classify("src/app/main.ts").Type)
	assert.Equal(t, "app", c.Classify("src/app/routes.ts").Type)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := boundaries.NewClassifier(mustRuleSet(t, serviceSpec()), boundaries.Options{Parallelism: 4})

	files := []core.SourceFile{
		{Path: "src/models/a.ts"},
		{Path: "src/services/b/index.ts"},
		{Path: "tests/c.test.ts"},
		{Path: "nowhere/d.ts"},
		{Path: "src/models/e.types.ts"},
	}
	got, err := c.ClassifyAll(context.Background(), files)
	require.NoError(t, err)

	types := make([]string, len(got))
	for i, inst := range got {
		types[i] = inst.Type
		assert.Equal(t, files[i].Path, inst.Path)
	}
	assert.Equal(t, []string{"models", "services", "tests", core.Unclassified, "modelsTypes"}, types)
}

func TestClassifyAll_Cancelled(t *testing.T) {
	c := boundaries.NewClassifier(mustRuleSet(t, serviceSpec()), boundaries.Options{Parallelism: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ClassifyAll(ctx, []core.SourceFile{{Path: "src/models/a.ts"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestClassify_Roles(t *testing.T) {
	spec := serviceSpec()
	spec.Roles = []boundaries.RoleSpec{{Name: "test", Patterns: []string{"tests/**"}}}
	spec.Elements = append(spec.Elements, core.ElementTypeDef{
		Name: "fixtures", Pattern: "tests/fixtures/**", Role: "test",
	})
	rs := mustRuleSet(t, spec)
	c := boundaries.NewClassifier(rs, boundaries.Options{})

	assert.Equal(t, "test", rs.RoleOf("tests/fixtures/users.json"))
	assert.Equal(t, core.DefaultRole, rs.RoleOf("src/models/user.ts"))

	fixture := c.Classify("tests/fixtures/users.json")
	assert.Equal(t, "fixtures", fixture.Type)
	assert.Equal(t, "test", fixture.Role)

	// Role catalogs fall back to the default catalog.
	assert.Equal(t, "tests", c.Classify("tests/unit/a.test.ts").Type)

	// The default role never sees role-only types.
	main := c.ClassifyFile(core.SourceFile{Path: "tests/fixtures/users.json", Role: core.DefaultRole})
	assert.Equal(t, "tests", main.Type)
}

func TestResolve(t *testing.T) {
	src := core.NewElementInstance("actions", "src/actions/v1/a.ts", core.DefaultRole,
		map[string]string{"version": "v1"})

	got, err := boundaries.Resolve(core.Literal("v9"), src)
	require.NoError(t, err)
	assert.Equal(t, "v9", got)

	got, err = boundaries.Resolve(core.SourceCapture("version"), src)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	_, err = boundaries.Resolve(core.SourceCapture("actionName"), src)
	require.ErrorIs(t, err, boundaries.ErrUnresolvedCapture)
}

func TestValidate(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	c := boundaries.NewClassifier(rs, boundaries.Options{})
	v := boundaries.NewValidator(rs)

	tests := []struct {
		name       string
		from, to   string
		wantAllow  bool
		wantReason core.Reason
	}{
		{"plain allow", "src/actions/v1/a.ts", "src/services/user/index.ts", true, ""},
		{"capture equal", "src/actions/v1/a.ts", "src/actions/v1/a.types.ts", true, ""},
		{"capture differs", "src/actions/v1/a.ts", "src/actions/v1/b.types.ts", false, core.ReasonCaptureMismatch},
		{"capture ignores unconstrained names", "src/actions/v1/a.ts", "src/actions/v2/a.types.ts", true, ""},
		{"provider family", "src/providers/sms/client.ts", "src/providers/sms/types.ts", true, ""},
		{"other provider", "src/providers/sms/client.ts", "src/providers/email/types.ts", false, core.ReasonCaptureMismatch},
		{"model family", "src/models/user.ts", "src/models/user.types.ts", true, ""},
		{"other model", "src/models/user.ts", "src/models/order.types.ts", false, core.ReasonCaptureMismatch},
		{"not listed", "src/services/user/index.ts", "src/actions/v1/a.ts", false, core.ReasonNoAllowEntry},
		{"source has no rules", "src/generated/api.ts", "src/models/user.ts", false, core.ReasonNoAllowEntry},
		{"wildcard", "tests/unit/a.test.ts", "src/actions/v1/a.ts", true, ""},
		{"wildcard without exemption", "tests/unit/a.test.ts", "scripts/seed.ts", false, core.ReasonUnclassifiedEndpoint},
		{"unclassified source", "scripts/seed.ts", "src/services/user/index.ts", false, core.ReasonUnclassifiedEndpoint},
		{"unclassified target", "src/services/user/index.ts", "scripts/seed.ts", false, core.ReasonUnclassifiedEndpoint},
		{"target above root", "src/actions/v1/a.ts", "../src/services/user/index.ts", false, core.ReasonUnclassifiedEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge := core.ImportEdge{From: tt.from, To: tt.to}
			d, err := v.Validate(edge, c.Classify(tt.from), c.Classify(tt.to))
			require.NoError(t, err)

			assert.Equal(t, tt.wantAllow, d.Allowed)
			if tt.wantAllow {
				assert.Nil(t, d.Violation)
				require.NotNil(t, d.Rule)
				return
			}
			require.NotNil(t, d.Violation)
			assert.Equal(t, tt.wantReason, d.Violation.Reason)
			assert.Equal(t, tt.from, d.Violation.From)
			assert.Equal(t, tt.to, d.Violation.To)
		})
	}
}

func TestValidate_DefaultDeny(t *testing.T) {
	rs := mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("a", "a/**", ""),
			elem("b", "b/**", ""),
			elem("c", "c/**", ""),
		},
		Rules: []boundaries.RuleSpec{{From: []string{"a"}, Allow: allow("c")}},
	})
	c := boundaries.NewClassifier(rs, boundaries.Options{})
	v := boundaries.NewValidator(rs)

	for _, pair := range [][2]string{{"a/x.go", "b/y.go"}, {"b/y.go", "a/x.go"}, {"b/y.go", "c/z.go"}, {"c/z.go", "c/w.go"}} {
		d, err := v.Validate(core.ImportEdge{From: pair[0], To: pair[1]}, c.Classify(pair[0]), c.Classify(pair[1]))
		require.NoError(t, err)
		require.False(t, d.Allowed, "%s -> %s", pair[0], pair[1])
		assert.Equal(t, core.ReasonNoAllowEntry, d.Violation.Reason)
	}
}

func TestValidate_UnclassifiedExemptions(t *testing.T) {
	spec := boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("tests", "tests/**", ""),
			elem("app", "app/**", ""),
			elem("tools", "tools/**", ""),
		},
		Rules: []boundaries.RuleSpec{
			{From: []string{"tests"}, Allow: allow("*"), AllowUnclassified: true},
			{From: []string{"tools"}, Allow: allow(core.Unclassified)},
			{From: []string{core.Unclassified}, Allow: allow("app")},
		},
	}
	rs := mustRuleSet(t, spec)
	c := boundaries.NewClassifier(rs, boundaries.Options{})
	v := boundaries.NewValidator(rs)

	check := func(from, to string) boundaries.Decision {
		d, err := v.Validate(core.ImportEdge{From: from, To: to}, c.Classify(from), c.Classify(to))
		require.NoError(t, err)
		return d
	}

	assert.True(t, check("tests/a.go", "vendor/x.go").Allowed, "wildcard with exemption covers unclassified")
	assert.True(t, check("tests/a.go", "app/a.go").Allowed)
	assert.True(t, check("tools/gen.go", "vendor/x.go").Allowed, "explicit unclassified target")
	assert.True(t, check("vendor/x.go", "app/a.go").Allowed, "rules for unclassified source")

	d := check("vendor/x.go", "tools/gen.go")
	require.False(t, d.Allowed)
	assert.Equal(t, core.ReasonNoAllowEntry, d.Violation.Reason)

	d = check("app/a.go", "vendor/x.go")
	require.False(t, d.Allowed)
	assert.Equal(t, core.ReasonUnclassifiedEndpoint, d.Violation.Reason)
	assert.Equal(t, core.Unclassified, d.Violation.ToType)
}

func TestValidate_CandidatesInDeclaredOrder(t *testing.T) {
	rs := mustRuleSet(t, boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("handler", "api/*/handler.go", core.MatchFile, "version"),
			elem("schema", "api/*/schema.go", core.MatchFile, "version"),
		},
		Rules: []boundaries.RuleSpec{
			{From: []string{"handler"}, Allow: []boundaries.AllowSpec{
				constrained("schema", map[string]string{"version": "${from.version}"}),
				constrained("schema", map[string]string{"version": "shared"}),
			}},
		},
	})
	c := boundaries.NewClassifier(rs, boundaries.Options{})
	v := boundaries.NewValidator(rs)

	validate := func(from, to string) boundaries.Decision {
		d, err := v.Validate(core.ImportEdge{From: from, To: to}, c.Classify(from), c.Classify(to))
		require.NoError(t, err)
		return d
	}

	d := validate("api/v1/handler.go", "api/v1/schema.go")
	require.True(t, d.Allowed)
	assert.Equal(t, core.SourceCapture("version"), d.Rule.Constraints["version"])

	d = validate("api/v1/handler.go", "api/shared/schema.go")
	require.True(t, d.Allowed, "second candidate admits the edge")
	assert.Equal(t, core.Literal("shared"), d.Rule.Constraints["version"])

	d = validate("api/v1/handler.go", "api/v2/schema.go")
	require.False(t, d.Allowed)
	assert.Equal(t, core.ReasonCaptureMismatch, d.Violation.Reason)
	assert.Equal(t, []core.CaptureMismatch{{Capture: "version", Expected: "v1", Actual: "v2"}}, d.Violation.Mismatches)
}

func TestValidate_UnresolvedCaptureIsAnError(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	v := boundaries.NewValidator(rs)

	from := core.NewElementInstance("models", "src/models/user.ts", core.DefaultRole, nil)
	to := core.NewElementInstance("modelsTypes", "src/models/user.types.ts", core.DefaultRole,
		map[string]string{"modelName": "user"})

	_, err := v.Validate(core.ImportEdge{From: from.Path, To: to.Path}, from, to)
	require.ErrorIs(t, err, boundaries.ErrUnresolvedCapture)
}

func TestValidate_MissingTargetCapture(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	v := boundaries.NewValidator(rs)

	from := core.NewElementInstance("models", "src/models/user.ts", core.DefaultRole,
		map[string]string{"modelName": "user"})
	to := core.NewElementInstance("modelsTypes", "src/models/user.types.ts", core.DefaultRole, nil)

	d, err := v.Validate(core.ImportEdge{From: from.Path, To: to.Path}, from, to)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	assert.Equal(t, []core.CaptureMismatch{{Capture: "modelName", Expected: "user", Missing: true}}, d.Violation.Mismatches)
}

func TestCheck_ReportsInEdgeOrder(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	r := boundaries.NewReporter(rs, boundaries.Options{Parallelism: 3})

	files := []core.SourceFile{{Path: "src/services/user/index.ts"}}
	edges := []core.ImportEdge{
		{From: "src/services/user/index.ts", To: "src/actions/v1/a.ts"},
		{From: "src/actions/v1/a.ts", To: "src/services/user/index.ts"},
		{From: "./src/models/user.ts", To: "src/models/order.types.ts"},
		{From: "scripts/seed.ts", To: "src/models/user.ts"},
		{From: "src/services/user/index.ts", To: "src/actions/v1/a.ts"},
	}

	report, err := r.Check(context.Background(), files, edges)
	require.NoError(t, err)

	var got []int
	var reasons []core.Reason
	for _, v := range report.Violations {
		got = append(got, v.EdgeIndex)
		reasons = append(reasons, v.Reason)
	}
	assert.Equal(t, []int{0, 2, 3, 4}, got, "duplicates are kept")
	assert.Equal(t, []core.Reason{
		core.ReasonNoAllowEntry,
		core.ReasonCaptureMismatch,
		core.ReasonUnclassifiedEndpoint,
		core.ReasonNoAllowEntry,
	}, reasons)

	assert.Equal(t, "src/models/user.ts", report.Violations[1].From)
	assert.Len(t, report.Files, 5, "edge endpoints are added to the file list")
	assert.Equal(t, "src/services/user/index.ts", report.Files[0].Path)

	inst, ok := report.Instance("./scripts/seed.ts")
	require.True(t, ok)
	assert.True(t, inst.IsUnclassified())
	assert.Len(t, report.Unclassified(), 1)
	assert.Equal(t, map[core.Reason]int{
		core.ReasonNoAllowEntry:         2,
		core.ReasonCaptureMismatch:      1,
		core.ReasonUnclassifiedEndpoint: 1,
	}, report.CountByReason())
}

func TestCheck_Idempotent(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	files := []core.SourceFile{
		{Path: "src/actions/v1/a.ts"},
		{Path: "src/actions/v1/b.types.ts"},
		{Path: "src/models/user.ts"},
	}
	edges := []core.ImportEdge{
		{From: "src/actions/v1/a.ts", To: "src/actions/v1/b.types.ts"},
		{From: "src/models/user.ts", To: "src/actions/v1/a.ts"},
		{From: "src/models/user.ts", To: "lib/x.ts"},
	}

	run := func() []byte {
		report, err := boundaries.NewReporter(rs, boundaries.Options{}).Check(context.Background(), files, edges)
		require.NoError(t, err)
		data, err := json.Marshal(report)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(run()), string(run()))
}

func TestCheck_NoViolations(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())
	report, err := boundaries.NewReporter(rs, boundaries.Options{}).Check(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, report.Violations)
	assert.Empty(t, report.Violations)
	assert.Equal(t, rs.Hash(), report.RuleSetHash)
}

func TestNewRuleSet_ConfigErrors(t *testing.T) {
	base := []core.ElementTypeDef{
		elem("models", "src/models/*.ts", core.MatchFile, "modelName"),
		elem("services", "src/services/**", ""),
	}

	tests := []struct {
		name      string
		spec      boundaries.RuleSetSpec
		wantErr   error
		wantType  string
		wantField string
	}{
		{
			name: "duplicate type",
			spec: boundaries.RuleSetSpec{Elements: append(base,
				elem("models", "lib/models/*.ts", core.MatchFile))},
			wantErr:   boundaries.ErrDuplicateType,
			wantType:  "models",
			wantField: "type",
		},
		{
			name:      "reserved type",
			spec:      boundaries.RuleSetSpec{Elements: []core.ElementTypeDef{elem("unclassified", "x/**", "")}},
			wantErr:   boundaries.ErrReservedType,
			wantType:  "unclassified",
			wantField: "type",
		},
		{
			name:      "undeclared pattern capture",
			spec:      boundaries.RuleSetSpec{Elements: []core.ElementTypeDef{elem("x", "src/<name>", "")}},
			wantErr:   pattern.ErrUndeclaredCapture,
			wantType:  "x",
			wantField: "pattern",
		},
		{
			name: "unknown source type",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"views"}, Allow: allow("models")},
			}},
			wantErr:   boundaries.ErrUnknownType,
			wantType:  "views",
			wantField: "rules[0].from",
		},
		{
			name: "unknown target type",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"services"}, Allow: allow("models", "views")},
			}},
			wantErr:   boundaries.ErrUnknownType,
			wantType:  "services",
			wantField: "rules[0].allow[1].type",
		},
		{
			name: "constraint on undeclared capture",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"models"}, Allow: []boundaries.AllowSpec{
					constrained("services", map[string]string{"modelName": "${from.modelName}"}),
				}},
			}},
			wantErr:   boundaries.ErrUndeclaredConstraint,
			wantType:  "models",
			wantField: "rules[0].allow[0].captures.modelName",
		},
		{
			name: "constraint on wildcard",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"models"}, Allow: []boundaries.AllowSpec{
					constrained("*", map[string]string{"modelName": "x"}),
				}},
			}},
			wantErr:   boundaries.ErrUndeclaredConstraint,
			wantType:  "models",
			wantField: "rules[0].allow[0].captures.modelName",
		},
		{
			name: "malformed template",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"models"}, Allow: []boundaries.AllowSpec{
					constrained("models", map[string]string{"modelName": "${to.modelName}"}),
				}},
			}},
			wantErr:   boundaries.ErrInvalidTemplate,
			wantType:  "models",
			wantField: "rules[0].allow[0].captures.modelName",
		},
		{
			name: "reference to undeclared source capture",
			spec: boundaries.RuleSetSpec{Elements: base, Rules: []boundaries.RuleSpec{
				{From: []string{"services"}, Allow: []boundaries.AllowSpec{
					constrained("models", map[string]string{"modelName": "${from.modelName}"}),
				}},
			}},
			wantErr:   boundaries.ErrUndeclaredReference,
			wantType:  "services",
			wantField: "rules[0].allow[0].captures.modelName",
		},
		{
			name: "undeclared role",
			spec: boundaries.RuleSetSpec{Elements: []core.ElementTypeDef{
				{Name: "fixtures", Pattern: "tests/fixtures/**", Role: "test"},
			}},
			wantErr:   boundaries.ErrInvalidRole,
			wantType:  "fixtures",
			wantField: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := boundaries.NewRuleSet(tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var cfgErr *boundaries.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantType, cfgErr.Type)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestNewRuleSet_ReportsAllErrors(t *testing.T) {
	_, err := boundaries.NewRuleSet(boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("a", "a/**", ""),
			elem("a", "b/**", ""),
			elem("*", "c/**", ""),
		},
		Rules: []boundaries.RuleSpec{{From: []string{"a"}, Allow: allow("ghost")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boundaries.ErrDuplicateType)
	assert.ErrorIs(t, err, boundaries.ErrReservedType)
	assert.ErrorIs(t, err, boundaries.ErrUnknownType)
}

func TestNewRuleSet_Shadows(t *testing.T) {
	spec := boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			elem("models", "src/models/*.ts", core.MatchFile, "modelName"),
			elem("modelsTypes", "src/models/*.types.ts", core.MatchFile, "modelName"),
		},
	}

	rs := mustRuleSet(t, spec)
	require.Len(t, rs.Shadows(), 1)
	assert.Equal(t, boundaries.Shadow{
		Role:       core.DefaultRole,
		Type:       "modelsTypes",
		ShadowedBy: "models",
		Sample:     "src/models/x.types.ts",
	}, rs.Shadows()[0])

	spec.StrictCatalog = true
	_, err := boundaries.NewRuleSet(spec)
	require.ErrorIs(t, err, boundaries.ErrShadowedElement)

	assert.Empty(t, mustRuleSet(t, serviceSpec()).Shadows())
}

func TestRuleSet_Accessors(t *testing.T) {
	rs := mustRuleSet(t, serviceSpec())

	def, ok := rs.Type("providers")
	require.True(t, ok)
	assert.Equal(t, core.MatchFolder, def.Mode)
	assert.Equal(t, core.DefaultRole, def.Role)

	assert.Len(t, rs.Types(), len(serviceSpec().Elements))
	assert.Equal(t, "actionsTypes", rs.Types()[0].Name)

	rules := rs.RulesFrom("actions")
	require.Len(t, rules, 4)
	assert.Equal(t, "services", rules[0].Target)
	assert.Equal(t, "actionsTypes", rules[3].Target)

	rules[0].Target = "mutated"
	assert.Equal(t, "services", rs.RulesFrom("actions")[0].Target)

	assert.Len(t, rs.Hash(), 16)
	assert.Equal(t, rs.Hash(), mustRuleSet(t, serviceSpec()).Hash())
}
