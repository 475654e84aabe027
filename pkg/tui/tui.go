// Package tui runs the interactive machine query console for host
// applications that already hold a record set.
package tui

import (
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/machq/internal/query"
	"github.com/oakwood-commons/machq/internal/session"
	"github.com/oakwood-commons/machq/internal/ui"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// NewSession builds the query session the console drives.
func NewSession(records []query.Record, cfg Config) (*session.Session, error) {
	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	return session.New(records, opts...), nil
}

// Run starts the console over records and blocks until the user quits. It
// returns the raw query text at exit. Host applications can pass
// tea.ProgramOption values to control IO.
func Run(records []query.Record, cfg Config, opts ...tea.ProgramOption) (string, error) {
	s, err := NewSession(records, cfg)
	if err != nil {
		return "", err
	}
	uiOpts, err := cfg.uiOptions()
	if err != nil {
		return "", err
	}
	m, err := ui.RunModel(s, ui.RunOptions{
		Options:   uiOpts,
		Width:     cfg.Width,
		Height:    cfg.Height,
		StartKeys: cfg.StartKeys,
	}, opts...)
	if m == nil {
		return "", err
	}
	input, _ := m.Session().Input()
	return input, err
}

// RenderSnapshot renders one frame of the console after cfg.StartKeys and
// returns it as a string.
func RenderSnapshot(records []query.Record, cfg Config) (string, error) {
	s, err := NewSession(records, cfg)
	if err != nil {
		return "", err
	}
	uiOpts, err := cfg.uiOptions()
	if err != nil {
		return "", err
	}
	return ui.RenderSnapshot(s, ui.SnapshotConfig{
		Options:   uiOpts,
		Width:     cfg.Width,
		Height:    cfg.Height,
		StartKeys: cfg.StartKeys,
	}), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
