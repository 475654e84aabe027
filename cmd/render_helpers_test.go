package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/source"
)

// parsedOptions parses args against the root command flags.
func parsedOptions(t *testing.T, args ...string) *rootOptions {
	t.Helper()
	o := &rootOptions{}
	cmd := o.command()
	require.NoError(t, cmd.ParseFlags(args))
	o.flags = cmd.Flags()
	return o
}

func defaults(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestResolveSnapshotSize(t *testing.T) {
	orig := termGetSize
	t.Cleanup(func() { termGetSize = orig })
	termGetSize = func(int) (int, int, error) { return 0, 0, errors.New("no terminal") }
	t.Setenv("COLUMNS", "")

	assert.Equal(t, snapshotSize{Width: 90, Height: 30}, resolveSnapshotSize(90, 30))
	assert.Equal(t, snapshotSize{Width: defaultFallbackTermWidth, Height: 24}, resolveSnapshotSize(0, 0))

	termGetSize = func(int) (int, int, error) { return 200, 50, nil }
	assert.Equal(t, snapshotSize{Width: 200, Height: 12}, resolveSnapshotSize(0, 12))
}

func TestSourceKindForPath(t *testing.T) {
	assert.Equal(t, source.KindSQLite, sourceKindForPath("machines.db"))
	assert.Equal(t, source.KindSQLite, sourceKindForPath("/tmp/x.SQLITE3"))
	assert.Equal(t, source.KindFile, sourceKindForPath("inventory.yaml"))
	assert.Equal(t, source.KindFile, sourceKindForPath("-"))
}

func TestSourceConfig(t *testing.T) {
	cfg := defaults(t)

	sc := parsedOptions(t).sourceConfig(cfg, nil, nil)
	assert.Equal(t, source.KindSynthetic, sc.Kind)
	assert.Equal(t, source.DefaultCount, sc.Count)
	assert.Equal(t, source.DefaultTable, sc.Table)

	sc = parsedOptions(t).sourceConfig(cfg, []string{"machines.sqlite"}, nil)
	assert.Equal(t, source.KindSQLite, sc.Kind)
	assert.Equal(t, "machines.sqlite", sc.Path)

	in := strings.NewReader("[]")
	sc = parsedOptions(t, "--table", "nodes").sourceConfig(cfg, []string{"-"}, in)
	assert.Equal(t, source.KindFile, sc.Kind)
	assert.Equal(t, "nodes", sc.Table)
	assert.Same(t, in, sc.Stdin)

	sc = parsedOptions(t, "--source", "synthetic", "--records", "7", "--seed", "42").sourceConfig(cfg, []string{"x.json"}, nil)
	assert.Equal(t, source.KindSynthetic, sc.Kind, "--source wins over the path guess")
	assert.Equal(t, 7, sc.Count)
	assert.Equal(t, uint64(42), sc.Seed)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := defaults(t)
	o := parsedOptions(t, "--dialect", "cel", "--engine", "cel", "--field-match", "contains", "--theme", "light")
	require.NoError(t, o.applyFlagOverrides(&cfg))
	assert.Equal(t, "cel", cfg.UI.Dialect)
	assert.Equal(t, "cel", cfg.UI.Engine)
	assert.Equal(t, "contains", cfg.UI.FieldMatch)
	assert.Equal(t, "light", cfg.UI.Theme.Default)

	cfg = defaults(t)
	require.NoError(t, parsedOptions(t).applyFlagOverrides(&cfg))
	assert.Equal(t, "sql", cfg.UI.Dialect, "unset flags keep config values")

	err := parsedOptions(t, "--theme", "neon").applyFlagOverrides(&cfg)
	assert.ErrorContains(t, err, `unknown theme "neon"`)
}

func TestTUIConfig(t *testing.T) {
	cfg := defaults(t)
	o := parsedOptions(t, "-q", "RAM(>4)", "--press", "<Tab>", "--width", "100", "--no-color")
	tc, err := o.tuiConfig(cfg, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, "machq", tc.AppName)
	assert.Equal(t, "RAM(>4)", tc.InitialQuery)
	assert.Equal(t, []string{"<Tab>"}, tc.StartKeys)
	assert.Equal(t, 100, tc.Width)
	assert.True(t, tc.NoColor)
	assert.Equal(t, cfg.UI.Prompt, tc.Prompt)
	require.NotNil(t, tc.Theme)

	// The derived settings produce valid session options.
	_, err = tc.SessionOptions()
	assert.NoError(t, err)
}

func TestTableOptions(t *testing.T) {
	cfg := defaults(t)
	cfg.UI.MaxRows = 10

	opts := parsedOptions(t, "--no-color").tableOptions(cfg, 80)
	assert.True(t, opts.NoColor)
	assert.Equal(t, 80, opts.MaxWidth)
	assert.Equal(t, 10, opts.MaxRows)

	opts = parsedOptions(t, "--limit", "3").tableOptions(cfg, 0)
	assert.Zero(t, opts.MaxRows, "an explicit window replaces the row cap")
}

func TestOutputWidth(t *testing.T) {
	assert.Equal(t, 55, outputWidth(55, true))
	assert.Zero(t, outputWidth(0, true))
}

func TestValidateOutput(t *testing.T) {
	for _, ok := range []string{"table", "json", "yaml", "markdown", "html"} {
		assert.NoError(t, validateOutput(ok))
	}
	assert.Error(t, validateOutput("csv"))
}
