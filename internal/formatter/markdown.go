package formatter

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/machq/internal/query"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
)

// FormatMarkdown renders records as a pipe table with the same columns and
// cell formatting as the text table. Numeric columns are right-aligned.
func FormatMarkdown(records []query.Record) string {
	var b strings.Builder
	row := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}

	titles := make([]string, len(columns))
	rules := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.Title
		rules[i] = "---"
		if c.Align == AlignRight {
			rules[i] = "---:"
		}
	}
	row(titles)
	row(rules)

	for _, r := range records {
		cells := Cells(r)
		for i, cell := range cells {
			cells[i] = markdownEscaper.Replace(cell)
		}
		row(cells)
	}
	return b.String()
}

// FormatHTML renders records as an HTML table fragment.
func FormatHTML(records []query.Record) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(FormatMarkdown(records)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
