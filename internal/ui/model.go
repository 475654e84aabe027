// Package ui is the terminal front end of the query console. It translates
// key presses into session events and renders session snapshots.
package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/machq/internal/completion"
	"github.com/oakwood-commons/machq/internal/formatter"
	"github.com/oakwood-commons/machq/internal/query"
	"github.com/oakwood-commons/machq/internal/session"
	"github.com/oakwood-commons/machq/internal/ui/table"
)

const (
	defaultWidth          = 140
	defaultHeight         = 30
	defaultMaxSuggestions = 8
)

// Options configures a Model.
type Options struct {
	AppName        string
	NoColor        bool
	MaxSuggestions int
	Theme          *Theme // nil uses DefaultTheme
	HideFooter     bool
}

// Model is the bubbletea model wrapping one session.
type Model struct {
	session *session.Session
	table   *table.Model[query.Record]
	footer  FooterModel
	theme   Theme
	styles  styles

	appName        string
	noColor        bool
	hideFooter     bool
	maxSuggestions int
	width          int
	height         int

	lastResult *session.Result
	quitting   bool
}

// NewModel creates a model over s.
func NewModel(s *session.Session, opts Options) *Model {
	th := DefaultTheme()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	maxSug := opts.MaxSuggestions
	if maxSug <= 0 {
		maxSug = defaultMaxSuggestions
	}
	m := &Model{
		session:        s,
		table:          table.NewModel(recordColumns(), recordRow),
		footer:         FooterModel{NoColor: opts.NoColor},
		theme:          th,
		styles:         newStyles(th, opts.NoColor),
		appName:        strings.TrimSpace(opts.AppName),
		noColor:        opts.NoColor,
		hideFooter:     opts.HideFooter,
		maxSuggestions: maxSug,
		width:          defaultWidth,
		height:         defaultHeight,
	}
	if m.appName == "" {
		m.appName = "machq"
	}
	m.table.SetNoColor(opts.NoColor)
	m.table.SetColors(th.HeaderFG, th.HeaderBG, th.SelectedFG, th.SelectedBG)
	applyTableTheme(th)
	m.sync()
	return m
}

func recordColumns() []table.Column {
	cols := formatter.Columns()
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		out[i] = table.Column{Title: formatter.AlignCell(c.Title, c), Width: c.Width}
	}
	return out
}

func recordRow(r query.Record) table.Row {
	return table.Row(formatter.AlignedCells(r))
}

// Session returns the wrapped session.
func (m *Model) Session() *session.Session {
	return m.session
}

// Quitting reports whether a quit event was received.
func (m *Model) Quitting() bool {
	return m.quitting
}

// SetSize sets the terminal dimensions.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.layout()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		if isTableKey(msg) {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		ev, ok := keyEvent(msg)
		if !ok {
			return m, nil
		}
		if m.session.Handle(ev) {
			m.quitting = true
			return m, tea.Quit
		}
		m.sync()
	}
	return m, nil
}

// sync copies rows into the table when the session produced a new result.
func (m *Model) sync() {
	if r := m.session.Result(); r != nil && r != m.lastResult {
		m.lastResult = r
		m.table.SetRows(r.Rows)
	}
	m.layout()
}

func (m *Model) layout() {
	used := 4 // header, prompt, status, blank before table
	used += m.suggestionLines()
	if !m.hideFooter {
		used++
	}
	m.footer.Width = m.width
	m.table.SetSize(m.width, max(1, m.height-used-2))
}

func (m *Model) suggestionLines() int {
	if m.session.Mode() == session.Compiled {
		return 0
	}
	return min(len(m.session.Snapshot().Suggestions), m.maxSuggestions)
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws the current frame as a string.
func (m *Model) Render() string {
	snap := m.session.Snapshot()
	m.footer.Mode = snap.Mode

	lines := []string{m.renderHeader(snap), m.renderPrompt(snap)}
	lines = append(lines, m.renderSuggestions(snap)...)
	lines = append(lines, m.styles.status.Render(snap.Status), "")
	lines = append(lines, m.table.View())
	if !m.hideFooter {
		lines = append(lines, m.footer.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader(snap session.DisplaySnapshot) string {
	title := fmt.Sprintf(" %s  %s  %s ", m.appName, strings.ToUpper(snap.Mode.String()), snap.Dialect)
	return m.styles.header.Render(title)
}

func (m *Model) renderPrompt(snap session.DisplaySnapshot) string {
	prompt := m.styles.prompt.Render(snap.Prompt)
	if snap.ReadOnly {
		return prompt + m.styles.compiled.Render(snap.Text)
	}
	input := snap.Input
	cursor := max(0, min(snap.Cursor, len(input)))
	under := " "
	rest := ""
	if cursor < len(input) {
		_, size := utf8.DecodeRuneInString(input[cursor:])
		under = input[cursor : cursor+size]
		rest = input[cursor+size:]
	}
	return prompt +
		m.styles.input.Render(input[:cursor]) +
		m.styles.cursor.Render(under) +
		m.styles.input.Render(rest)
}

// renderSuggestions shows a window of at most maxSuggestions entries that
// keeps the selected one visible.
func (m *Model) renderSuggestions(snap session.DisplaySnapshot) []string {
	if len(snap.Suggestions) == 0 {
		return nil
	}
	limit := min(len(snap.Suggestions), m.maxSuggestions)
	start := 0
	if snap.Selected >= limit {
		start = snap.Selected - limit + 1
	}
	width := 0
	for _, c := range snap.Suggestions[start : start+limit] {
		width = max(width, lipgloss.Width(label(c)))
	}
	lines := make([]string, 0, limit)
	for i, c := range snap.Suggestions[start : start+limit] {
		text := label(c)
		pad := strings.Repeat(" ", width-lipgloss.Width(text))
		if start+i == snap.Selected {
			lines = append(lines, "> "+m.styles.selected.Render(text+pad)+"  "+m.styles.detail.Render(c.Detail))
			continue
		}
		lines = append(lines, "  "+m.styles.suggestion.Render(text+pad)+"  "+m.styles.detail.Render(c.Detail))
	}
	return lines
}

func label(c completion.Completion) string {
	if c.Display != "" {
		return c.Display
	}
	return c.Text
}
