package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree creates files under root. Keys are slash-separated relative
// paths; parent directories are created as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(files[p]), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}

// ServiceTree is a small layered project used by integration tests.
func ServiceTree() map[string]string {
	return map[string]string{
		"src/actions/v1/createUser.ts":       "",
		"src/actions/v1/createUser.types.ts": "",
		"src/actions/v2/deleteUser.types.ts": "",
		"src/services/user/index.ts":         "",
		"src/models/user.ts":                 "",
		"src/models/user.types.ts":           "",
		"tests/unit/user.test.ts":            "",
		"scripts/seed.ts":                    "",
		"node_modules/lib/index.js":          "",
	}
}
