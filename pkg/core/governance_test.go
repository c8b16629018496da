//go:build governance

package core_test

import (
	"context"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

const modulePath = "github.com/leapstack-labs/layerlint"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types should be moved to their
// sole consumer to maintain cohesion.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	// Find pkg/core and collect exported types
	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}

	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// Count usages: CoreTypeName -> set of importing packages
	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"

	for _, p := range pkgs {
		// Skip core itself and test packages
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") {
			continue
		}
		if p.TypesInfo == nil {
			continue
		}

		for _, info := range p.TypesInfo.Uses {
			if name, exists := coreDefs[info]; exists {
				importer := strings.TrimPrefix(p.PkgPath, base)
				usageMap[name][importer] = true
			}
		}
	}

	// Report violations
	for typeName, importers := range usageMap {
		if isCohesionAllowlisted(typeName) {
			continue
		}

		if len(importers) == 0 {
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		} else if len(importers) == 1 {
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move type from pkg/core to %s.",
				typeName, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for identifiers allowed to have single usage.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		// Constructors and parsers live next to the type they build.
		"NewElementInstance":   true,
		"UnclassifiedInstance": true,
		"ParseMatchMode":       true,
		"ParseTemplate":        true,
		// Template vocabulary is only resolved by the validator.
		"Template":      true,
		"TemplateKind":  true,
		"Literal":       true,
		"SourceCapture": true,
	}
	return allowlist[name]
}

// =============================================================================
// LAYERING TEST - The module obeys its own boundaries
// =============================================================================

// moduleRuleSet describes this repository's layers: core depends on nothing,
// libraries under pkg/ only on core and each other, internal components may
// use pkg/, the CLI may use everything below it and binaries only the CLI.
func moduleRuleSet(t *testing.T) *boundaries.RuleSet {
	t.Helper()

	rs, err := boundaries.NewRuleSet(boundaries.RuleSetSpec{
		Elements: []core.ElementTypeDef{
			{Name: "core", Pattern: "pkg/core", Mode: core.MatchFolder},
			{Name: "libs", Pattern: "pkg/<lib>", Mode: core.MatchFolder, Captures: []string{"lib"}},
			{Name: "cli", Pattern: "internal/cli", Mode: core.MatchFolder},
			{Name: "components", Pattern: "internal/<component>", Mode: core.MatchFolder, Captures: []string{"component"}},
			{Name: "commands", Pattern: "cmd/<name>", Mode: core.MatchFolder, Captures: []string{"name"}},
		},
		Rules: []boundaries.RuleSpec{
			{From: []string{"libs"}, Allow: []boundaries.AllowSpec{
				{Type: "core"},
				{Type: "libs"},
				// The lint context exposes the import graph.
				{Type: "components", Captures: map[string]string{"component": "dag"}},
				{Type: "components", Captures: map[string]string{"component": "graph"}},
			}},
			{From: []string{"components"}, Allow: []boundaries.AllowSpec{
				{Type: "core"}, {Type: "libs"}, {Type: "components"},
			}},
			{From: []string{"cli"}, Allow: []boundaries.AllowSpec{
				{Type: "core"}, {Type: "libs"}, {Type: "components"}, {Type: "cli"},
			}},
			{From: []string{"commands"}, Allow: []boundaries.AllowSpec{
				{Type: "cli"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Invalid module rule set: %v", err)
	}
	return rs
}

// packageFile stands in for a package in the import graph.
func packageFile(pkgPath string) string {
	return strings.TrimPrefix(pkgPath, modulePath+"/") + "/package.go"
}

// TestGovernance_Layering loads the module's package graph and checks every
// intra-module import against moduleRuleSet.
func TestGovernance_Layering(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	var files []core.SourceFile
	var edges []core.ImportEdge
	for _, p := range pkgs {
		if !strings.HasPrefix(p.PkgPath, modulePath+"/") {
			continue
		}
		files = append(files, core.SourceFile{Path: packageFile(p.PkgPath)})
		for imp := range p.Imports {
			if strings.HasPrefix(imp, modulePath+"/") {
				edges = append(edges, core.ImportEdge{From: packageFile(p.PkgPath), To: packageFile(imp)})
			}
		}
	}
	if len(edges) == 0 {
		t.Fatal("No intra-module imports found")
	}

	report, err := boundaries.NewReporter(moduleRuleSet(t), boundaries.Options{}).Check(context.Background(), files, edges)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	for _, f := range report.Unclassified() {
		t.Errorf("LAYERING VIOLATION: package '%s' belongs to no layer", strings.TrimSuffix(f.Path, "/package.go"))
	}
	for _, v := range report.Violations {
		t.Errorf("LAYERING VIOLATION: %s (%s) imports %s (%s): %s",
			strings.TrimSuffix(v.From, "/package.go"), v.FromType,
			strings.TrimSuffix(v.To, "/package.go"), v.ToType, v.Reason)
	}
}
