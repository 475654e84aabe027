// Package formatter renders machine records as fixed-width text rows and as
// JSON or YAML documents.
package formatter

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

var (
	defaultHeaderFG  = lipgloss.Color("0")
	defaultHeaderBG  = lipgloss.Color("15")
	defaultSeparator = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors of the record table.
// Nil fields fall back to the defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	hfg, hbg, sep := tc.HeaderFG, tc.HeaderBG, tc.SeparatorColor
	if hfg == nil {
		hfg = defaultHeaderFG
	}
	if hbg == nil {
		hbg = defaultHeaderBG
	}
	if sep == nil {
		sep = defaultSeparator
	}
	headerStyle = lipgloss.NewStyle().Foreground(hfg).Background(hbg)
	separatorStyle = lipgloss.NewStyle().Foreground(sep)
}

// SetTableTheme overrides the table styles.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Truncate cuts s to at most width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// padRight left-aligns s within width cells, truncating when it is wider.
func padRight(s string, width int) string {
	s = Truncate(s, width)
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}

// padLeft right-aligns s within width cells, truncating when it is wider.
func padLeft(s string, width int) string {
	s = Truncate(s, width)
	return strings.Repeat(" ", width-runewidth.StringWidth(s)) + s
}
