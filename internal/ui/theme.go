package ui

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/formatter"
)

// Theme defines the colors used by the console. Nil colors render unstyled.
type Theme struct {
	Prompt     color.Color // prompt text
	Input      color.Color // raw query text
	Cursor     color.Color // cursor cell background
	Compiled   color.Color // compiled clause text
	Suggestion color.Color // unselected suggestion text
	SelectedFG color.Color // selected suggestion foreground
	SelectedBG color.Color // selected suggestion background
	Detail     color.Color // suggestion detail column
	Status     color.Color // status line
	HeaderFG   color.Color // table header foreground
	HeaderBG   color.Color // table header background
	Separator  color.Color // divider lines
}

var (
	defaultThemeOnce sync.Once
	defaultTheme     Theme
)

// DefaultTheme returns the active theme of the embedded configuration.
func DefaultTheme() Theme {
	defaultThemeOnce.Do(func() {
		defaultTheme = fallbackTheme()
		cfg, err := config.Default()
		if err != nil {
			return
		}
		if _, tc, err := cfg.ActiveTheme(); err == nil {
			defaultTheme = themeFromConfigWithBase(tc, defaultTheme)
		}
	})
	return defaultTheme
}

func fallbackTheme() Theme {
	return Theme{
		Prompt:     lipgloss.Color("12"),
		Input:      lipgloss.Color("252"),
		Cursor:     lipgloss.Color("15"),
		Compiled:   lipgloss.Color("214"),
		Suggestion: lipgloss.Color("248"),
		SelectedFG: lipgloss.Color("0"),
		SelectedBG: lipgloss.Color("12"),
		Detail:     lipgloss.Color("240"),
		Status:     lipgloss.Color("244"),
		HeaderFG:   lipgloss.Color("0"),
		HeaderBG:   lipgloss.Color("15"),
		Separator:  lipgloss.Color("240"),
	}
}

// ThemeFromConfig converts a configured theme. Unset colors take the
// built-in dark palette.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	return themeFromConfigWithBase(cfg, fallbackTheme())
}

func themeFromConfigWithBase(cfg config.ThemeConfig, base Theme) Theme {
	pick := func(v config.ColorValue, fallback color.Color) color.Color {
		s := strings.TrimSpace(string(v))
		if s == "" {
			return fallback
		}
		return lipgloss.Color(s)
	}
	return Theme{
		Prompt:     pick(cfg.Prompt, base.Prompt),
		Input:      pick(cfg.Input, base.Input),
		Cursor:     pick(cfg.Cursor, base.Cursor),
		Compiled:   pick(cfg.Compiled, base.Compiled),
		Suggestion: pick(cfg.Suggestion, base.Suggestion),
		SelectedFG: pick(cfg.SelectedFG, base.SelectedFG),
		SelectedBG: pick(cfg.SelectedBG, base.SelectedBG),
		Detail:     pick(cfg.Detail, base.Detail),
		Status:     pick(cfg.Status, base.Status),
		HeaderFG:   pick(cfg.HeaderFG, base.HeaderFG),
		HeaderBG:   pick(cfg.HeaderBG, base.HeaderBG),
		Separator:  pick(cfg.Separator, base.Separator),
	}
}

// applyTableTheme pushes the header and divider colors to the text renderer
// used for non-interactive output.
func applyTableTheme(t Theme) {
	formatter.SetTableTheme(formatter.TableColors{
		HeaderFG:       t.HeaderFG,
		HeaderBG:       t.HeaderBG,
		SeparatorColor: t.Separator,
	})
}

// styles are the lipgloss styles derived from a theme.
type styles struct {
	prompt     lipgloss.Style
	input      lipgloss.Style
	cursor     lipgloss.Style
	compiled   lipgloss.Style
	suggestion lipgloss.Style
	selected   lipgloss.Style
	detail     lipgloss.Style
	status     lipgloss.Style
	header     lipgloss.Style
	separator  lipgloss.Style
}

func newStyles(t Theme, noColor bool) styles {
	plain := lipgloss.NewStyle()
	if noColor {
		return styles{
			prompt:     plain,
			input:      plain,
			cursor:     plain.Reverse(true),
			compiled:   plain,
			suggestion: plain,
			selected:   plain.Reverse(true),
			detail:     plain,
			status:     plain,
			header:     plain.Bold(true),
			separator:  plain,
		}
	}
	return styles{
		prompt:     plain.Foreground(t.Prompt).Bold(true),
		input:      plain.Foreground(t.Input),
		cursor:     plain.Foreground(lipgloss.Color("0")).Background(t.Cursor),
		compiled:   plain.Foreground(t.Compiled),
		suggestion: plain.Foreground(t.Suggestion),
		selected:   plain.Foreground(t.SelectedFG).Background(t.SelectedBG),
		detail:     plain.Foreground(t.Detail).Italic(true),
		status:     plain.Foreground(t.Status),
		header:     plain.Foreground(t.HeaderFG).Background(t.HeaderBG).Bold(true),
		separator:  plain.Foreground(t.Separator),
	}
}
