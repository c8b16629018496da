package discover_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/layerlint/internal/discover"
	"github.com/leapstack-labs/layerlint/internal/testutil"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

func TestFiles_DefaultIgnore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/a.ts":              "",
		"src/b/c.ts":            "",
		"tests/t.ts":            "",
		"node_modules/x/y.js":   "",
		"src/node_modules/z.js": "",
		".git/HEAD":             "",
		"dist/out.js":           "",
	})

	files, err := discover.Files(context.Background(), discover.Options{
		Root:   root,
		Ignore: discover.DefaultIgnore,
		Logger: testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, []core.SourceFile{
		{Path: "src/a.ts"},
		{Path: "src/b/c.ts"},
		{Path: "tests/t.ts"},
	}, files)
}

func TestFiles_IncludeAndRoles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, testutil.ServiceTree())

	files, err := discover.Files(context.Background(), discover.Options{
		Root:    root,
		Include: []string{"src/**/*.ts", "tests/**"},
		Ignore:  []string{"src/actions/v2/**"},
		RoleOf: func(p string) string {
			if strings.HasPrefix(p, "tests/") {
				return "test"
			}
			return core.DefaultRole
		},
	})
	require.NoError(t, err)

	got := make(map[string]string, len(files))
	for _, f := range files {
		got[f.Path] = f.Role
	}
	assert.Equal(t, map[string]string{
		"src/actions/v1/createUser.ts":       core.DefaultRole,
		"src/actions/v1/createUser.types.ts": core.DefaultRole,
		"src/services/user/index.ts":         core.DefaultRole,
		"src/models/user.ts":                 core.DefaultRole,
		"src/models/user.types.ts":           core.DefaultRole,
		"tests/unit/user.test.ts":            "test",
	}, got)
}

func TestFiles_InvalidGlob(t *testing.T) {
	_, err := discover.Files(context.Background(), discover.Options{
		Root:    t.TempDir(),
		Include: []string{"src/[a"},
	})
	require.Error(t, err)
}

func TestFiles_Cancelled(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.ts": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := discover.Files(ctx, discover.Options{Root: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/b/c.ts":          "",
		"tests/t.ts":          "",
		"node_modules/x/y.js": "",
		".git/HEAD":           "",
	})

	dirs, err := discover.Dirs(root, discover.DefaultIgnore)
	require.NoError(t, err)
	assert.Equal(t, []string{".", "src", "src/b", "tests"}, dirs)
}

func TestIgnored(t *testing.T) {
	ignore := []string{"dist/**", "**/*.gen.ts"}

	assert.True(t, discover.Ignored("dist/a.js", ignore))
	assert.True(t, discover.Ignored("dist/", ignore))
	assert.True(t, discover.Ignored("src/api.gen.ts", ignore))
	assert.False(t, discover.Ignored("src/api.ts", ignore))
	assert.False(t, discover.Ignored("distribution/a.js", ignore))
}

func TestFiles_ExcludeSurvivesCustomIgnore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/a.ts":                  "",
		"build/out.js":              "",
		".layerlint/history.db":     "",
		".layerlint/history.db-wal": "",
		".layerlint/notes.txt":      "",
	})

	files, err := discover.Files(context.Background(), discover.Options{
		Root:    root,
		Ignore:  []string{"build/**"},
		Exclude: discover.DatabaseFiles(root, ".layerlint/history.db"),
	})
	require.NoError(t, err)

	assert.Equal(t, []core.SourceFile{
		{Path: ".layerlint/notes.txt"},
		{Path: "src/a.ts"},
	}, files)
}

func TestDatabaseFiles(t *testing.T) {
	root := t.TempDir()

	assert.Equal(t, []string{
		"state/runs.db",
		"state/runs.db-wal",
		"state/runs.db-shm",
		"state/runs.db-journal",
	}, discover.DatabaseFiles(root, filepath.Join(root, "state", "runs.db")))
	assert.Equal(t, "state/runs.db", discover.DatabaseFiles(root, "state/runs.db")[0])
	assert.Nil(t, discover.DatabaseFiles(root, filepath.Join(filepath.Dir(root), "runs.db")))
	assert.Nil(t, discover.DatabaseFiles(root, ""))
}
