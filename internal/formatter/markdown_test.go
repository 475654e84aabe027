package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/machq/internal/query"
)

func TestFormatMarkdown(t *testing.T) {
	lines := strings.Split(strings.TrimRight(FormatMarkdown(sample()), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| FQDN | STATUS | TAGS | ZONE | FABRIC | CORES | RAM | DISKS | STORAGE |", lines[0])
	assert.Equal(t, "| --- | --- | --- | --- | --- | ---: | ---: | ---: | ---: |", lines[1])
	assert.Equal(t, "| sin73l00045.maas | Deployed | mlod2s001, mlod2s014 | zone-1 | fabric-2 | 8 | 6GiB | 7 | 12.50TB |", lines[2])
}

func TestFormatMarkdownEscapes(t *testing.T) {
	r := query.NewRecord("a_b|c.maas", map[query.Field]any{query.Status: "*new*"})
	out := FormatMarkdown([]query.Record{r})
	assert.Contains(t, out, `| a\_b\|c.maas | \*new\* |`)
}

func TestFormatHTML(t *testing.T) {
	out := FormatHTML(sample())
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<th>FQDN</th>")
	assert.Contains(t, out, "sin73l00046.maas")
	assert.Equal(t, 3, strings.Count(out, "<tr>"), "header row plus one row per record")

	escaped := FormatHTML([]query.Record{query.NewRecord("<b>x</b>.maas", nil)})
	assert.NotContains(t, escaped, "<b>x</b>")
}
