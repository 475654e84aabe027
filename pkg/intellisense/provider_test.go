package intellisense

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/machq/internal/query"
)

func records() []query.Record {
	return []query.Record{
		query.NewRecord("sin73l00045.maas", map[query.Field]any{query.Status: "Deployed", query.Zone: "zone-1"}),
		query.NewRecord("sin73l00046.maas", map[query.Field]any{query.Status: "Ready", query.Zone: "zone-2"}),
	}
}

func TestSuggestAndAccept(t *testing.T) {
	p := NewProvider(records(), MatchPrefix)

	got := p.Suggest("ZO")
	require.Len(t, got, 1)
	assert.Equal(t, CompletionField, got[0].Kind)

	ctx, got := p.SuggestAt("ZO", 2)
	input, cursor := Accept("ZO", ctx, got[0])
	assert.Equal(t, "ZONE(", input)
	assert.Equal(t, 5, cursor)

	ctx, got = p.SuggestAt(input+"2", cursor+1)
	require.Len(t, got, 1)
	input, cursor = Accept(input+"2", ctx, got[0])
	assert.Equal(t, "ZONE(zone-2", input)
	assert.Equal(t, len(input), cursor)
}

func TestSuggestComparators(t *testing.T) {
	p := NewProvider(records(), MatchPrefix)
	got := p.Suggest("RAM(>")
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.Equal(t, CompletionOperator, c.Kind)
	}
}

func ExampleProvider_Suggest() {
	p := NewProvider(records(), MatchPrefix)
	for _, c := range p.Suggest("STATUS(dep") {
		fmt.Printf("%s - %s\n", c.Display, c.Detail)
	}
	// Output: Deployed - 1 record
}
