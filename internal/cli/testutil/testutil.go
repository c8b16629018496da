// Package testutil holds project fixtures and output assertions for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	coretest "github.com/leapstack-labs/layerlint/internal/testutil"
)

// SetupTestProject writes the example layered project to a temp dir and
// returns its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	return coretest.ExampleProject(t)
}

// SetupEmptyProject returns a project whose config declares no element types.
func SetupEmptyProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "layerlint.yaml"), []byte("boundaries: {}\n"), 0o644); err != nil {
		t.Fatalf("write layerlint.yaml: %v", err)
	}
	return dir
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// AssertNoANSI fails when s carries terminal escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if loc := ansiEscape.FindStringIndex(s); loc != nil {
		t.Errorf("unexpected ANSI escape at offset %d: %q", loc[0], s[loc[0]:loc[1]])
	}
}

// AssertValidMarkdown checks that code fences are closed and that no
// heading is empty.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	inFence := false
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.TrimSpace(strings.TrimLeft(trimmed, "#")) == "" {
			t.Errorf("empty heading on line %d", i+1)
		}
	}
	if inFence {
		t.Error("unterminated code fence")
	}
}
