package tui

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/cel"
	"github.com/oakwood-commons/machq/internal/completion"
	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/session"
	"github.com/oakwood-commons/machq/internal/ui"
)

// Config holds host-provided settings for running the console.
type Config struct {
	AppName        string
	Width          int
	Height         int
	NoColor        bool
	HideFooter     bool // Hide the key-hint footer (for non-interactive display)
	Theme          *ui.Theme
	ThemeName      string // Alternative to Theme: a theme from the default configuration (dark, light)
	Prompt         string
	MaxSuggestions int
	FieldMatch     string // prefix (default) or contains
	Dialect        string // sql (default) or cel
	Engine         string // native (default) or cel
	InitialQuery   string
	StartKeys      []string
	Logger         logr.Logger
}

// DefaultConfig returns a baseline console config with the same defaults as the CLI.
func DefaultConfig() Config {
	cfg := Config{
		AppName:    "machq",
		Prompt:     session.DefaultPrompt,
		FieldMatch: string(completion.MatchPrefix),
		Dialect:    string(session.DialectSQL),
		Engine:     "native",
		Logger:     logr.Discard(),
	}
	embedded, err := config.Default()
	if err != nil {
		return cfg
	}
	if name := strings.TrimSpace(embedded.App.About.Name); name != "" {
		cfg.AppName = name
	}
	cfg.Prompt = embedded.UI.Prompt
	cfg.MaxSuggestions = embedded.UI.MaxSuggestions
	cfg.FieldMatch = embedded.UI.FieldMatch
	cfg.Dialect = embedded.UI.Dialect
	cfg.Engine = embedded.UI.Engine
	cfg.ThemeName = embedded.UI.Theme.Default
	return cfg
}

// theme resolves Theme, then ThemeName, then the default theme.
func (c Config) theme() (*ui.Theme, error) {
	if c.Theme != nil {
		return c.Theme, nil
	}
	name := strings.TrimSpace(c.ThemeName)
	if name == "" {
		return nil, nil
	}
	embedded, err := config.Default()
	if err != nil {
		return nil, err
	}
	tc, ok := embedded.UI.Themes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(embedded.ThemeNames(), ", "))
	}
	th := ui.ThemeFromConfig(tc)
	return &th, nil
}

func (c Config) uiOptions() (ui.Options, error) {
	th, err := c.theme()
	if err != nil {
		return ui.Options{}, err
	}
	return ui.Options{
		AppName:        c.AppName,
		NoColor:        c.NoColor,
		MaxSuggestions: c.MaxSuggestions,
		Theme:          th,
		HideFooter:     c.HideFooter,
	}, nil
}

// SessionOptions translates the config into session options. The cel engine
// needs a CEL evaluator; the cel dialect uses one to type-check its output.
func (c Config) SessionOptions() ([]session.Option, error) {
	log := c.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	match, err := completion.ParseMatchMode(c.FieldMatch)
	if err != nil {
		return nil, err
	}
	dialect, err := session.ParseDialect(c.Dialect)
	if err != nil {
		return nil, err
	}
	eval, err := cel.NewEvaluator(cel.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create CEL evaluator: %w", err)
	}
	opts := []session.Option{
		session.WithLogger(log),
		session.WithMatchMode(match),
		session.WithDialect(dialect),
		session.WithEvaluator(eval),
	}
	if strings.TrimSpace(c.Prompt) != "" {
		opts = append(opts, session.WithPrompt(c.Prompt))
	}
	switch strings.ToLower(strings.TrimSpace(c.Engine)) {
	case "", "native":
	case "cel":
		opts = append(opts, session.WithFilter(session.CELFilter(eval, log)))
	default:
		return nil, fmt.Errorf("unknown engine %q (want native or cel)", c.Engine)
	}
	if c.InitialQuery != "" {
		opts = append(opts, session.WithInput(c.InitialQuery))
	}
	return opts, nil
}
