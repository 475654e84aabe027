package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/machq/internal/config"
)

// runCLI executes a fresh root command with args, isolated from the user's
// config and forced into batch mode.
func runCLI(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origPiped := stdoutIsPiped
	stdoutIsPiped = func() bool { return true }
	t.Cleanup(func() { stdoutIsPiped = origPiped })

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeRecords(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestCLI_BatchJSON(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "12", "--seed", "3", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeRecords(t, out), 12)
}

func TestCLI_BatchQueryFilters(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "40", "--seed", "3", "-o", "json", "-q", "STATUS(deployed)")
	require.NoError(t, err)
	rows := decodeRecords(t, out)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Equal(t, "Deployed", r["status"])
	}
}

func TestCLI_BatchCELEngineMatchesNative(t *testing.T) {
	args := []string{"--records", "40", "--seed", "11", "-o", "json", "-q", "maas RAM(>4) TAGS(mlod)"}
	native, err := runCLI(t, nil, args...)
	require.NoError(t, err)
	viaCEL, err := runCLI(t, nil, append(args, "--engine", "cel")...)
	require.NoError(t, err)
	assert.JSONEq(t, native, viaCEL)
}

func TestCLI_BatchTable(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "5", "--seed", "1", "--no-color", "-q", "STATUS(nothing-matches)")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2, "header and divider only")
	assert.Contains(t, lines[0], "FQDN")
	assert.Contains(t, lines[0], "STORAGE")
	assert.True(t, strings.HasPrefix(lines[1], "---"))
}

func TestCLI_BatchMarkdown(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "3", "--seed", "4", "-o", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "| FQDN | STATUS |"), out)
	assert.Equal(t, 5, strings.Count(out, "\n"))

	out, err = runCLI(t, nil, "--records", "3", "--seed", "4", "-o", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestCLI_LimitAndTail(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "10", "--seed", "2", "-o", "json", "--limit", "3", "--offset", "2")
	require.NoError(t, err)
	all, err := runCLI(t, nil, "--records", "10", "--seed", "2", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, decodeRecords(t, all)[2:5], decodeRecords(t, out))

	out, err = runCLI(t, nil, "--records", "10", "--seed", "2", "-o", "json", "--tail", "1")
	require.NoError(t, err)
	assert.Equal(t, decodeRecords(t, all)[9:], decodeRecords(t, out))

	_, err = runCLI(t, nil, "--limit", "1", "--tail", "1", "-o", "json")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestCLI_Compile(t *testing.T) {
	out, err := runCLI(t, nil, "--compile", "-q", "sin73 STATUS(deploy,ready) RAM(>4)")
	require.NoError(t, err)
	assert.Equal(t, "FQDN LIKE '%sin73%' AND (STATUS LIKE '%deploy%' OR STATUS LIKE '%ready%') AND RAM > 4\n", out)

	out, err = runCLI(t, nil, "--compile", "--dialect", "cel", "-q", "RAM(>4)")
	require.NoError(t, err)
	assert.Equal(t, "(has(_.ram) ? double(_.ram) > 4.0 : false)\n", out)

	_, err = runCLI(t, nil, "--compile", "--dialect", "xpath", "-q", "RAM(>4)")
	assert.Error(t, err)
}

func TestCLI_ConfigFileSetsDialect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  dialect: cel\n"), 0o644))

	out, err := runCLI(t, nil, "--config-file", path, "--compile", "-q", "")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestCLI_InventoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	content := `machines:
  - fqdn: sin73-a.maas
    status: Deployed
    ram: 8
  - fqdn: fra01-b.maas
    status: Ready
    ram: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runCLI(t, nil, path, "-o", "json", "-q", "RAM(>4)")
	require.NoError(t, err)
	rows := decodeRecords(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "sin73-a.maas", rows[0]["fqdn"])
}

func TestCLI_Stdin(t *testing.T) {
	in := strings.NewReader(`[{"fqdn":"a.maas","zone":"zone-1"},{"fqdn":"b.maas","zone":"zone-2"}]`)
	out, err := runCLI(t, in, "-", "-o", "yaml", "-q", "ZONE(2)")
	require.NoError(t, err)
	assert.Contains(t, out, "fqdn: b.maas")
	assert.NotContains(t, out, "a.maas")
}

func TestCLI_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"-o", "csv"}, "invalid output"},
		{"bad theme", []string{"--theme", "neon", "-o", "json"}, `unknown theme "neon"`},
		{"bad engine", []string{"--engine", "sql", "-o", "json"}, "unknown engine"},
		{"bad source", []string{"--source", "ldap", "-o", "json"}, "unknown source kind"},
		{"missing file", []string{filepath.Join("no", "such", "inventory.json"), "-o", "json"}, "inventory.json"},
		{"too many args", []string{"a.json", "b.json"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, nil, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCLI_Snapshot(t *testing.T) {
	out, err := runCLI(t, nil, "--records", "6", "--seed", "5", "--snapshot", "--no-color",
		"--width", "120", "--height", "20", "--press", "STATUS(deployed)<C-t>")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 20)
	assert.Contains(t, lines[0], "machq  COMPILED  sql")
	assert.Contains(t, lines[1], "STATUS LIKE '%deployed%'")
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "machq "), out)
	assert.Contains(t, out, "(go ")

	out, err = runCLI(t, nil, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "machq "), out)
}

func TestCLI_Config(t *testing.T) {
	out, err := runCLI(t, nil, "config", "get", "-o", "json")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "machq", cfg.App.About.Name)
	assert.Equal(t, "dark", cfg.UI.Theme.Default)

	out, err = runCLI(t, nil, "config", "get")
	require.NoError(t, err)
	parsed, err := config.Parse([]byte(out))
	require.NoError(t, err, "yaml output must round-trip through the config parser")
	assert.Equal(t, "sql", parsed.UI.Dialect)

	out, err = runCLI(t, nil, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "default: dark")
	assert.Contains(t, out, " - light")

	out, err = runCLI(t, nil, "config", "defaults")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)

	_, err = runCLI(t, nil, "config", "get", "-o", "toml")
	assert.ErrorContains(t, err, "invalid output for config")
}

func TestCLI_GenerateRoundTrip(t *testing.T) {
	out, err := runCLI(t, nil, "generate", "--records", "7", "--seed", "9")
	require.NoError(t, err)
	generated := decodeRecords(t, out)
	require.Len(t, generated, 7)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "machines.db")
	_, err = runCLI(t, nil, "generate", "--records", "7", "--seed", "9", "--out", dbPath)
	require.NoError(t, err)

	out, err = runCLI(t, nil, dbPath, "-o", "json")
	require.NoError(t, err)
	loaded := decodeRecords(t, out)
	require.Len(t, loaded, 7)
	for i := range loaded {
		assert.Equal(t, generated[i]["fqdn"], loaded[i]["fqdn"])
		assert.Equal(t, generated[i]["system_id"], loaded[i]["system_id"])
	}

	yamlPath := filepath.Join(dir, "inventory.yaml")
	_, err = runCLI(t, nil, "generate", "--records", "4", "--format", "yaml", "--out", yamlPath)
	require.NoError(t, err)
	out, err = runCLI(t, nil, yamlPath, "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeRecords(t, out), 4)

	_, err = runCLI(t, nil, "generate", "--format", "sqlite")
	assert.ErrorContains(t, err, "--out is required")
}
