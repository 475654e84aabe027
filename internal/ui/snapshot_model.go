package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/machq/internal/session"
)

// SnapshotConfig configures RenderSnapshot.
type SnapshotConfig struct {
	Options
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot renders a single frame of the console over s after applying
// the scripted keys, without starting a terminal program.
func RenderSnapshot(s *session.Session, cfg SnapshotConfig) string {
	m := NewModel(s, cfg.Options)
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.SetSize(width, height)
	ApplyStartupKeys(m, cfg.StartKeys)

	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
