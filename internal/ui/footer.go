package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/machq/internal/session"
)

// FooterModel renders the key hints for the current mode.
type FooterModel struct {
	NoColor bool
	Width   int
	Mode    session.Mode
}

// compiledKinds are the only events honored in Compiled mode.
var compiledKinds = map[session.EventKind]bool{
	session.EventToggleMode:   true,
	session.EventCycleDialect: true,
	session.EventQuit:         true,
}

// View renders one line of "key label" pairs.
func (m FooterModel) View() string {
	keyStyle := lipgloss.NewStyle()
	if !m.NoColor {
		keyStyle = keyStyle.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("240")).Bold(true)
	}
	parts := make([]string, 0, 2*len(DefaultBindings))
	for _, b := range DefaultBindings {
		if b.Help == "" || len(b.Keys) == 0 {
			continue
		}
		if m.Mode == session.Compiled && !compiledKinds[b.Kind] {
			continue
		}
		label := b.Help
		if b.Kind == session.EventToggleMode && m.Mode == session.Compiled {
			label = "edit"
		}
		parts = append(parts, keyStyle.Render(displayKey(b.Keys[0])), label)
	}
	line := strings.Join(parts, " ")
	if m.Width > 0 && lipgloss.Width(line) > m.Width {
		line = ansi.Truncate(line, m.Width, "")
	}
	return line
}

// displayKey converts internal key names to the emacs-style display form (ctrl+t -> C-t).
func displayKey(key string) string {
	if len(key) >= 2 && key[0] == 'f' && key[1] >= '0' && key[1] <= '9' {
		return strings.ToUpper(key)
	}
	key = strings.ReplaceAll(key, "ctrl+", "C-")
	key = strings.ReplaceAll(key, "alt+", "M-")
	return key
}
