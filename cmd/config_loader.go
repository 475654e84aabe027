package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	rdebug "runtime/debug"
	"strings"
	"text/template"

	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/pkg/settings"
)

// configLoader centralizes config loading so commands share one merge path.
type configLoader struct {
	defaults  func() (config.Config, error)
	buildInfo func() (*rdebug.BuildInfo, bool)
}

var cfgLoader = configLoader{defaults: config.Default, buildInfo: rdebug.ReadBuildInfo}

func loadMergedConfig(cfgPath string) (config.Config, error) {
	return cfgLoader.loadMergedConfig(cfgPath)
}

// loadMergedConfig overlays the file at cfgPath (if any) on the embedded
// defaults, validates the theme selection and fills in build metadata.
func (l configLoader) loadMergedConfig(cfgPath string) (config.Config, error) {
	cfg, err := l.defaults()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if cfgPath != "" {
		user, err := config.ParseFile(cfgPath)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, user)
	}
	if _, _, err := cfg.ActiveTheme(); err != nil {
		return cfg, err
	}
	applyBuildData(&cfg, l.buildVersionData(cfg))
	return cfg, nil
}

// buildVersionData collects the values "{{ .build.* }}" templates can use.
// ldflags-injected settings win over module build info.
func (l configLoader) buildVersionData(cfg config.Config) map[string]any {
	version := settings.VersionInformation.BuildVersion
	gitCommit := settings.VersionInformation.Commit
	goVersion := runtime.Version()
	buildOS := runtime.GOOS
	buildArch := runtime.GOARCH

	if info, ok := l.buildInfo(); ok && info != nil {
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
		if info.Main.Version != "" && info.Main.Version != "(devel)" && version == "v0.0.0-nightly" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if gitCommit == "unknown" && len(s.Value) >= 7 {
					gitCommit = s.Value[:7]
				}
			case "GOOS":
				buildOS = s.Value
			case "GOARCH":
				buildArch = s.Value
			}
		}
	}

	name := cfg.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	return map[string]any{
		"name":       name,
		"version":    version,
		"go_version": goVersion,
		"git_commit": gitCommit,
		"build_time": settings.VersionInformation.BuildTime,
		"build_os":   buildOS,
		"build_arch": buildArch,
	}
}

// applyBuildData stores build metadata on the about block and expands
// templates in the details and help text.
func applyBuildData(cfg *config.Config, build map[string]any) {
	about := &cfg.App.About
	about.Version, _ = build["version"].(string)
	about.GoVersion, _ = build["go_version"].(string)
	about.GitCommit, _ = build["git_commit"].(string)
	about.BuildTime, _ = build["build_time"].(string)

	data := templateData(*cfg, build)
	for i, d := range about.Details {
		about.Details[i] = processTemplateString(d, data)
	}
	cfg.App.CLI.HelpDescription = processTemplateString(cfg.App.CLI.HelpDescription, data)
}

func templateData(cfg config.Config, build map[string]any) map[string]any {
	return map[string]any{
		"config": map[string]any{
			"app": map[string]any{
				"about": map[string]any{
					"name":           cfg.App.About.Name,
					"description":    cfg.App.About.Description,
					"repository_url": cfg.App.About.RepositoryURL,
				},
			},
			"ui": map[string]any{
				"prompt":  cfg.UI.Prompt,
				"dialect": cfg.UI.Dialect,
				"engine":  cfg.UI.Engine,
			},
		},
		"build": build,
	}
}

// processTemplateString expands a text/template, returning text unchanged
// when it has no actions or fails to parse or execute.
func processTemplateString(text string, data map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// resolveConfigPath returns explicit if set, otherwise
// $XDG_CONFIG_HOME/machq/config.yaml or ~/.config/machq/config.yaml when
// present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// cliVersionString is the one-line version shown by "version" and --version.
func cliVersionString(cfg config.Config) string {
	name := cfg.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	version := cfg.App.About.Version
	if version == "" {
		version = "dev"
	}
	goVersion := cfg.App.About.GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("%s %s (go %s)", name, version, goVersion)
}
