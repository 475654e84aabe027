package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/machq/internal/session"
)

// RunOptions configures RunModel.
type RunOptions struct {
	Options
	// Width and Height force a window size; 0 auto-detects the terminal.
	Width     int
	Height    int
	StartKeys []string
}

// RunModel starts the interactive console over s and blocks until the user
// quits. The final model is returned so callers can inspect the last input.
func RunModel(s *session.Session, opts RunOptions, progOpts ...tea.ProgramOption) (*Model, error) {
	m := NewModel(s, opts.Options)

	if opts.Width > 0 || opts.Height > 0 {
		runW, runH := opts.Width, opts.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		m.SetSize(runW, runH)
		progOpts = append(progOpts, tea.WithWindowSize(runW, runH))
	}

	if len(opts.StartKeys) > 0 {
		ApplyStartupKeys(m, opts.StartKeys)
		if m.Quitting() {
			return m, nil
		}
	}

	prog := tea.NewProgram(m, progOpts...)
	final, err := prog.Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm, err
	}
	return m, err
}
