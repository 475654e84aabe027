// Package config defines the machq configuration file and its embedded
// defaults.
package config

// Config is the full configuration file.
type Config struct {
	App    AppConfig    `yaml:"app" json:"app"`
	UI     UIConfig     `yaml:"ui" json:"ui"`
	Source SourceConfig `yaml:"source" json:"source"`
}

// AppConfig carries metadata shown by "machq version" and the help header.
type AppConfig struct {
	About AboutConfig `yaml:"about" json:"about"`
	CLI   CLIConfig   `yaml:"cli,omitempty" json:"cli,omitempty"`
}

// AboutConfig describes the application. Version fields are filled from
// build info at load time and are never read from files.
type AboutConfig struct {
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	RepositoryURL string   `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
	Details       []string `yaml:"details,omitempty" json:"details,omitempty"`
	Version       string   `yaml:"-" json:"-"`
	GoVersion     string   `yaml:"-" json:"-"`
	GitCommit     string   `yaml:"-" json:"-"`
	BuildTime     string   `yaml:"-" json:"-"`
}

// CLIConfig customizes command help output.
type CLIConfig struct {
	HelpDescription string `yaml:"help_description,omitempty" json:"help_description,omitempty"`
}

// UIConfig configures the interactive console.
type UIConfig struct {
	Prompt         string                 `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	MaxSuggestions int                    `yaml:"max_suggestions,omitempty" json:"max_suggestions,omitempty"`
	MaxRows        int                    `yaml:"max_rows,omitempty" json:"max_rows,omitempty"`
	FieldMatch     string                 `yaml:"field_match,omitempty" json:"field_match,omitempty"`
	Dialect        string                 `yaml:"dialect,omitempty" json:"dialect,omitempty"`
	Engine         string                 `yaml:"engine,omitempty" json:"engine,omitempty"`
	Theme          ThemeSelection         `yaml:"theme,omitempty" json:"theme,omitempty"`
	Themes         map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
}

// ThemeSelection names the active theme.
type ThemeSelection struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// ColorValue is a lipgloss color string: an ANSI index ("12") or hex ("#ff8800").
type ColorValue string

// ThemeConfig is one named color theme. Empty colors inherit from the base theme.
type ThemeConfig struct {
	Prompt     ColorValue `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Input      ColorValue `yaml:"input,omitempty" json:"input,omitempty"`
	Cursor     ColorValue `yaml:"cursor,omitempty" json:"cursor,omitempty"`
	Compiled   ColorValue `yaml:"compiled,omitempty" json:"compiled,omitempty"`
	Suggestion ColorValue `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
	SelectedFG ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	Detail     ColorValue `yaml:"detail,omitempty" json:"detail,omitempty"`
	Status     ColorValue `yaml:"status,omitempty" json:"status,omitempty"`
	HeaderFG   ColorValue `yaml:"header_fg,omitempty" json:"header_fg,omitempty"`
	HeaderBG   ColorValue `yaml:"header_bg,omitempty" json:"header_bg,omitempty"`
	Separator  ColorValue `yaml:"separator,omitempty" json:"separator,omitempty"`
}

// SourceConfig selects the record source.
type SourceConfig struct {
	Kind  string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Count int    `yaml:"count,omitempty" json:"count,omitempty"`
	Seed  uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
	Table string `yaml:"table,omitempty" json:"table,omitempty"`
}
