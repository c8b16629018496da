package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedcfg "github.com/leapstack-labs/layerlint/internal/config"
	"github.com/leapstack-labs/layerlint/internal/testutil"
)

const projectYAML = `
graph: deps/graph.yaml
parallelism: 2
output: json
boundaries:
  elements:
    - type: services
      pattern: src/services/<name>
      capture: [name]
  rules:
    - from: services
      allow: [services]
lint:
  threshold: warning
history:
  enabled: true
  path: .cache/runs.db
`

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("graph", "", "")
	fs.Int("parallelism", 0, "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("history-path", "", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Graph)
	assert.True(t, cfg.Discover.Enabled)
	assert.Equal(t, sharedcfg.DefaultThreshold, cfg.Lint.Threshold)
	assert.False(t, cfg.HistoryEnabled())
	assert.Equal(t, filepath.Join(dir, sharedcfg.DefaultHistoryPath), cfg.History.Path)
	assert.Equal(t, sharedcfg.DefaultHistoryKeep, cfg.History.Keep)
}

func TestLoadConfig_FileResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{sharedcfg.ConfigFileName: projectYAML})

	cfg, err := LoadConfigFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, sharedcfg.ConfigFileName), cfg.ConfigFile)
	assert.Equal(t, filepath.Join(dir, "deps", "graph.yaml"), cfg.Graph)
	assert.Equal(t, filepath.Join(dir, ".cache", "runs.db"), cfg.History.Path)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "warning", cfg.Lint.Threshold)
	assert.True(t, cfg.HistoryEnabled())
	require.Len(t, cfg.Boundaries.Elements, 1)
	assert.Equal(t, "services", cfg.Boundaries.Elements[0].Type)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		sharedcfg.ConfigFileName: projectYAML,
		"src/services/a/x.ts":    "",
	})

	cfg, err := LoadConfigFrom(filepath.Join(root, "src", "services", "a"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "deps", "graph.yaml"), cfg.Graph)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"conf/custom.yaml": projectYAML})

	cfg, err := LoadConfigFrom(t.TempDir(), filepath.Join(root, "conf", "custom.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "conf"), cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "conf", "deps", "graph.yaml"), cfg.Graph)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfigFrom(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{sharedcfg.ConfigFileName: "boundaries: [\n"})

	_, err := LoadConfigFrom(dir, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{sharedcfg.ConfigFileName: projectYAML})

	t.Setenv("LAYERLINT_PARALLELISM", "6")
	t.Setenv("LAYERLINT_OUTPUT", "markdown")
	t.Setenv("LAYERLINT_LINT__THRESHOLD", "info")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "text", "-v"}))

	cfg, err := LoadConfigFrom(dir, "", flags)
	require.NoError(t, err)

	// env beats file
	assert.Equal(t, 6, cfg.Parallelism)
	assert.Equal(t, "info", cfg.Lint.Threshold)
	// flags beat env
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	// unset flags do not override
	assert.Equal(t, filepath.Join(dir, "deps", "graph.yaml"), cfg.Graph)
}

func TestLoadConfig_PathFlagsRelativeToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{sharedcfg.ConfigFileName: projectYAML})

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--graph", "other.yaml", "--history-path", "h.db"}))

	cfg, err := LoadConfigFrom(dir, "", flags)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "other.yaml"), cfg.Graph)
	assert.Equal(t, filepath.Join(cwd, "h.db"), cfg.History.Path)
}

func TestEnvAndFlagKeys(t *testing.T) {
	assert.Equal(t, "lint.threshold", envKey("LAYERLINT_LINT__THRESHOLD"))
	assert.Equal(t, "history.enabled", envKey("LAYERLINT_HISTORY__ENABLED"))
	assert.Equal(t, "parallelism", envKey("LAYERLINT_PARALLELISM"))

	assert.Equal(t, "history.path", flagKey("history-path"))
	assert.Equal(t, "strict_catalog", flagKey("strict-catalog"))
	assert.Equal(t, "graph", flagKey("graph"))
}

func TestDefault(t *testing.T) {
	cfg := Default("/proj")
	assert.Equal(t, "/proj", cfg.ProjectRoot)
	assert.Equal(t, filepath.Join("/proj", sharedcfg.DefaultHistoryPath), cfg.History.Path)
	assert.NotNil(t, cfg.Boundaries)
	assert.NotNil(t, cfg.Lint)
}

func TestContextHelpers(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	cfg := Default(t.TempDir())
	got, ok := FromContext(WithConfig(context.Background(), cfg))
	require.True(t, ok)
	assert.Same(t, cfg, got)

	assert.NotNil(t, GetLogger(context.Background()))
	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
