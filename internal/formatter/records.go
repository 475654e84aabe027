package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/machq/internal/query"
)

// Align is a column alignment.
type Align int

//revive:disable:exported
const (
	AlignLeft Align = iota
	AlignRight
)

//revive:enable:exported

// Column describes one column of the record table.
type Column struct {
	Title string
	Width int
	Align Align
	Field query.Field // FreeText for the FQDN column
}

var columns = []Column{
	{Title: "FQDN", Width: 20, Field: query.FreeText},
	{Title: "STATUS", Width: 24, Field: query.Status},
	{Title: "TAGS", Width: 35, Field: query.Tags},
	{Title: "ZONE", Width: 11, Field: query.Zone},
	{Title: "FABRIC", Width: 12, Field: query.Fabric},
	{Title: "CORES", Width: 9, Align: AlignRight, Field: query.Cores},
	{Title: "RAM", Width: 9, Align: AlignRight, Field: query.RAM},
	{Title: "DISKS", Width: 9, Align: AlignRight, Field: query.Disks},
	{Title: "STORAGE", Width: 11, Align: AlignRight, Field: query.Storage},
}

// Columns returns the record table layout. Numeric fields are right-aligned.
func Columns() []Column {
	return append([]Column(nil), columns...)
}

// TableWidth is the combined width of all columns.
func TableWidth() int {
	w := 0
	for _, c := range columns {
		w += c.Width
	}
	return w
}

// Cells returns the display strings of r, one per column.
func Cells(r query.Record) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = Cell(r, c.Field)
	}
	return out
}

// Cell formats one field of r for display. RAM is shown in GiB and STORAGE
// in TB with two decimals; an empty tag list shows as "-".
func Cell(r query.Record, f query.Field) string {
	v := r.Value(f)
	switch f {
	case query.FreeText:
		return r.FQDN()
	case query.Tags:
		if len(v.List()) == 0 {
			return "-"
		}
		return strings.Join(v.List(), ", ")
	case query.RAM:
		if n, ok := v.Number(); ok {
			return query.FormatNumber(n) + "GiB"
		}
	case query.Storage:
		if n, ok := v.Number(); ok {
			return fmt.Sprintf("%.2fTB", n)
		}
	}
	return v.String()
}

// TableOptions configures RenderRecords.
type TableOptions struct {
	NoColor  bool
	MaxWidth int // 0 disables clipping
	MaxRows  int // 0 shows every row
}

// RenderRecords renders a header, a divider and one fixed-width line per record.
func RenderRecords(records []query.Record, opts TableOptions) string {
	var b strings.Builder
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = align(c.Title, c)
	}
	line := clip(strings.Join(header, ""), opts.MaxWidth)
	if !opts.NoColor {
		line = headerStyle.Render(line)
	}
	b.WriteString(line)
	b.WriteByte('\n')

	divider := strings.Repeat("-", TableWidth())
	divider = clip(divider, opts.MaxWidth)
	if !opts.NoColor {
		divider = separatorStyle.Render(divider)
	}
	b.WriteString(divider)
	b.WriteByte('\n')

	for i, r := range records {
		if opts.MaxRows > 0 && i >= opts.MaxRows {
			fmt.Fprintf(&b, "... %d more\n", len(records)-i)
			break
		}
		b.WriteString(clip(Row(r), opts.MaxWidth))
		b.WriteByte('\n')
	}
	return b.String()
}

// Row renders r as one unstyled fixed-width line.
func Row(r query.Record) string {
	var b strings.Builder
	for i, cell := range Cells(r) {
		b.WriteString(align(cell, columns[i]))
	}
	return b.String()
}

// AlignedCells returns the cells of r padded to their column widths.
func AlignedCells(r query.Record) []string {
	cells := Cells(r)
	for i, c := range columns {
		cells[i] = align(cells[i], c)
	}
	return cells
}

// AlignCell pads s to the width of c using its alignment.
func AlignCell(s string, c Column) string {
	return align(s, c)
}

func align(s string, c Column) string {
	if c.Align == AlignRight {
		return padLeft(s, c.Width)
	}
	return padRight(s, c.Width)
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return Truncate(s, width)
}
