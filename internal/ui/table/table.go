// Package table is a generic scrolling grid over typed rows, built on the
// bubbles table.
package table

import (
	"fmt"
	"image/color"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Column and Row re-export the bubbles types so callers need not import bubbles.
type Column = bubtable.Column
type Row = bubtable.Row

// Model displays values of type V, one per line.
type Model[V any] struct {
	table   bubtable.Model
	styles  bubtable.Styles
	rows    []V
	columns []Column
	toRow   func(V) Row

	width   int
	height  int
	noColor bool

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a table with the given columns. toRow renders one value
// as cells, one per column.
func NewModel[V any](columns []Column, toRow func(V) Row) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		PaddingLeft(0).
		PaddingRight(0)
	s.Selected = s.Selected.
		PaddingLeft(0).
		PaddingRight(0)
	s.Cell = lipgloss.NewStyle().
		PaddingLeft(0).
		PaddingRight(0)
	t.SetStyles(s)

	return &Model[V]{
		table:   t,
		styles:  s,
		columns: columns,
		toRow:   toRow,
		width:   80,
		height:  5,
	}
}

// SetRows replaces the displayed values. The cursor is kept when still in range.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	tableRows := make([]Row, len(rows))
	for i, r := range rows {
		tableRows[i] = m.toRow(r)
	}
	m.table.SetRows(tableRows)
	if m.Cursor() >= len(rows) {
		m.SetCursor(max(0, len(rows)-1))
	}
}

// Rows returns the displayed values.
func (m *Model[V]) Rows() []V {
	return m.rows
}

// Cursor returns the highlighted row index.
func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

// SetCursor moves the highlight.
func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the highlighted value, or nil when the table is empty.
func (m *Model[V]) SelectedRow() *V {
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[cursor]
}

// SetSize sets the visible width and the number of body lines.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = max(1, height)
	m.table.SetWidth(width)
	m.table.SetHeight(m.height)
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets custom theme colors. Nil colors keep the bubbles defaults.
func (m *Model[V]) SetColors(headerFG, headerBG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.headerBG != nil {
			s.Header = s.Header.Background(m.headerBG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation keys (pgup/pgdown, ...) to the bubbles table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m *Model[V]) View() string {
	return m.table.View()
}

// Height returns the rendered height including the header.
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

// String returns a string representation for debugging.
func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, cursor=%d, size=%dx%d]", len(m.rows), m.Cursor(), m.width, m.height)
}
