package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce   sync.Once
	embeddedConfig Config
	embeddedErr    error
)

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the parsed embedded defaults, the single source of default
// settings and themes.
func Default() (Config, error) {
	embeddedOnce.Do(func() {
		embeddedConfig, embeddedErr = Parse(embeddedDefaultConfig)
		if embeddedErr != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", embeddedErr)
		}
	})
	return embeddedConfig.clone(), embeddedErr
}

// Parse decodes a config document. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// ParseFile reads and decodes the config file at path.
func ParseFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays the non-zero settings of override onto base. Themes merge
// per color, so a user theme only has to name the colors it changes.
func Merge(base, override Config) Config {
	out := base.clone()

	setString(&out.App.About.Name, override.App.About.Name)
	setString(&out.App.About.Description, override.App.About.Description)
	setString(&out.App.About.RepositoryURL, override.App.About.RepositoryURL)
	if len(override.App.About.Details) > 0 {
		out.App.About.Details = append([]string(nil), override.App.About.Details...)
	}
	setString(&out.App.CLI.HelpDescription, override.App.CLI.HelpDescription)

	setString(&out.UI.Prompt, override.UI.Prompt)
	setInt(&out.UI.MaxSuggestions, override.UI.MaxSuggestions)
	setInt(&out.UI.MaxRows, override.UI.MaxRows)
	setString(&out.UI.FieldMatch, override.UI.FieldMatch)
	setString(&out.UI.Dialect, override.UI.Dialect)
	setString(&out.UI.Engine, override.UI.Engine)
	setString(&out.UI.Theme.Default, override.UI.Theme.Default)
	for name, theme := range override.UI.Themes {
		if out.UI.Themes == nil {
			out.UI.Themes = make(map[string]ThemeConfig)
		}
		out.UI.Themes[name] = MergeTheme(out.UI.Themes[name], theme)
	}

	setString(&out.Source.Kind, override.Source.Kind)
	setInt(&out.Source.Count, override.Source.Count)
	if override.Source.Seed != 0 {
		out.Source.Seed = override.Source.Seed
	}
	setString(&out.Source.Path, override.Source.Path)
	setString(&out.Source.Table, override.Source.Table)
	return out
}

// MergeTheme fills the empty colors of override from base.
func MergeTheme(base, override ThemeConfig) ThemeConfig {
	out := base
	apply := func(v ColorValue, dst *ColorValue) {
		if v != "" {
			*dst = v
		}
	}
	apply(override.Prompt, &out.Prompt)
	apply(override.Input, &out.Input)
	apply(override.Cursor, &out.Cursor)
	apply(override.Compiled, &out.Compiled)
	apply(override.Suggestion, &out.Suggestion)
	apply(override.SelectedFG, &out.SelectedFG)
	apply(override.SelectedBG, &out.SelectedBG)
	apply(override.Detail, &out.Detail)
	apply(override.Status, &out.Status)
	apply(override.HeaderFG, &out.HeaderFG)
	apply(override.HeaderBG, &out.HeaderBG)
	apply(override.Separator, &out.Separator)
	return out
}

// ActiveTheme returns the selected theme. A name missing from Themes falls
// back to "dark", which is always present in the defaults.
func (c Config) ActiveTheme() (string, ThemeConfig, error) {
	name := c.UI.Theme.Default
	if t, ok := c.UI.Themes[name]; ok {
		return name, t, nil
	}
	if t, ok := c.UI.Themes["dark"]; ok {
		return "dark", t, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(c.ThemeNames(), ", "))
	}
	return "", ThemeConfig{}, fmt.Errorf("no themes configured")
}

// ThemeNames lists the configured theme names in sorted order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for n := range c.UI.Themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c Config) clone() Config {
	out := c
	out.App.About.Details = append([]string(nil), c.App.About.Details...)
	if c.UI.Themes != nil {
		out.UI.Themes = make(map[string]ThemeConfig, len(c.UI.Themes))
		for k, v := range c.UI.Themes {
			out.UI.Themes[k] = v
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
