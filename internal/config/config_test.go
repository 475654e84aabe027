package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "machq", cfg.App.About.Name)
	assert.Equal(t, "query> ", cfg.UI.Prompt)
	assert.Equal(t, "prefix", cfg.UI.FieldMatch)
	assert.Equal(t, "sql", cfg.UI.Dialect)
	assert.Equal(t, "native", cfg.UI.Engine)
	assert.Equal(t, "synthetic", cfg.Source.Kind)
	assert.Equal(t, 45, cfg.Source.Count)
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())

	name, theme, err := cfg.ActiveTheme()
	require.NoError(t, err)
	assert.Equal(t, "dark", name)
	assert.Equal(t, ColorValue("12"), theme.Prompt)
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	a.UI.Themes["dark"] = ThemeConfig{}
	a.App.About.Details[0] = "changed"

	b, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, b.UI.Themes["dark"].Prompt)
	assert.NotEqual(t, "changed", b.App.About.Details[0])
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("ui:\n  promt: x\n"))
	require.Error(t, err)

	cfg, err := Parse([]byte("# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestMerge(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	user := `ui:
  prompt: "> "
  field_match: contains
  theme:
    default: midnight
  themes:
    midnight:
      prompt: "#00ff00"
    dark:
      status: "1"
source:
  kind: sqlite
  path: /tmp/inventory.db
  seed: 9
`
	require.NoError(t, os.WriteFile(path, []byte(user), 0o600))
	override, err := ParseFile(path)
	require.NoError(t, err)

	cfg := Merge(base, override)
	assert.Equal(t, "> ", cfg.UI.Prompt)
	assert.Equal(t, "contains", cfg.UI.FieldMatch)
	assert.Equal(t, "sql", cfg.UI.Dialect, "unset keys keep defaults")
	assert.Equal(t, 8, cfg.UI.MaxSuggestions)
	assert.Equal(t, "sqlite", cfg.Source.Kind)
	assert.Equal(t, uint64(9), cfg.Source.Seed)
	assert.Equal(t, 45, cfg.Source.Count)

	name, theme, err := cfg.ActiveTheme()
	require.NoError(t, err)
	assert.Equal(t, "midnight", name)
	assert.Equal(t, ColorValue("#00ff00"), theme.Prompt)
	assert.Equal(t, ColorValue("1"), cfg.UI.Themes["dark"].Status)
	assert.Equal(t, ColorValue("12"), cfg.UI.Themes["dark"].Prompt, "theme colors merge individually")

	assert.Equal(t, "query> ", base.UI.Prompt, "merge does not mutate the base")
	assert.NotContains(t, base.UI.Themes, "midnight")
}

func TestActiveThemeFallback(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.UI.Theme.Default = "solarized"
	name, theme, err := cfg.ActiveTheme()
	require.Error(t, err)
	assert.Equal(t, "dark", name)
	assert.Equal(t, cfg.UI.Themes["dark"], theme)

	_, _, err = Config{}.ActiveTheme()
	require.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
