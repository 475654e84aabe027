package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func machine(fqdn, status string, tags []string, ram, storage float64) Record {
	return NewRecord(fqdn, map[Field]any{
		Status:  status,
		Tags:    tags,
		Zone:    "zone-1",
		Fabric:  "fabric-2",
		Cores:   8,
		RAM:     ram,
		Disks:   6,
		Storage: storage,
	})
}

func TestNumericClause(t *testing.T) {
	tests := []struct {
		input   string
		storage float64
		want    bool
	}{
		{"STORAGE(>10)", 15.0, true},
		{"STORAGE(>10)", 10.0, false},
		{"STORAGE(=10)", 10.0, true},
		{"STORAGE(=10)", 10.5, false},
		{"STORAGE(10)", 10.0, true},
		{"STORAGE(>=10)", 10.0, true},
		{"STORAGE(!=10)", 10.0, false},
		{"STORAGE(<1, >40)", 45.0, true},
		{"STORAGE(<1, >40)", 20.0, false},
		{"STORAGE(abc, >10)", 15.0, true},
		{"STORAGE(abc)", 15.0, false},
		{"STORAGE()", 15.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec := machine("h", "Ready", nil, 4, tt.storage)
			assert.Equal(t, tt.want, Parse(tt.input).Match(rec))
		})
	}
}

func TestNumericClauseInvalidRecordValue(t *testing.T) {
	rec := NewRecord("h", map[Field]any{RAM: "n/a"})
	assert.False(t, Parse("RAM(!=4)").Match(rec))

	absent := NewRecord("h", nil)
	assert.False(t, Parse("RAM(!=4)").Match(absent))
}

func TestListClause(t *testing.T) {
	withTag := machine("h1", "Ready", []string{"mlod2s001"}, 4, 1)
	noTags := machine("h2", "Ready", []string{}, 4, 1)
	missing := NewRecord("h3", map[Field]any{Status: "Ready"})

	expr := Parse("TAGS(mlod)")
	assert.True(t, expr.Match(withTag))
	assert.False(t, expr.Match(noTags))
	assert.False(t, expr.Match(missing), "absent field never matches")

	assert.True(t, Parse("TAGS(MLOD2S0)").Match(withTag), "case-insensitive")
	assert.True(t, Parse("TAGS(zzz, s001)").Match(withTag), "any token matches")
}

func TestStringClause(t *testing.T) {
	rec := machine("h", "Failed commissioning", nil, 4, 1)
	assert.True(t, Parse("STATUS(commission)").Match(rec))
	assert.True(t, Parse("STATUS(ready, FAILED)").Match(rec))
	assert.False(t, Parse("STATUS(ready)").Match(rec))
	assert.True(t, Parse("ZONE(zone) FABRIC(fabric-2)").Match(rec))
}

func TestFreeTextMatchesEveryTerm(t *testing.T) {
	records := []Record{
		machine("sin73l00045.maas", "Ready", nil, 4, 1),
		machine("sin73l00046.maas", "Ready", nil, 4, 1),
		machine("sin73l000450.maas", "Ready", nil, 4, 1),
	}

	got := Filter(records, Parse("sin73l00045"))
	require.Len(t, got, 2)
	assert.Equal(t, "sin73l00045.maas", got[0].FQDN())
	assert.Equal(t, "sin73l000450.maas", got[1].FQDN())

	got = Filter(records, Parse("SIN73 46.maas"))
	require.Len(t, got, 1)
	assert.Equal(t, "sin73l00046.maas", got[0].FQDN())

	assert.Empty(t, Filter(records, Parse("sin73 nope")))
}

func TestFilterEndToEnd(t *testing.T) {
	big := machine("a.maas", "Deployed", nil, 6, 1)
	small := machine("b.maas", "Deployed", nil, 2, 1)
	other := machine("c.maas", "Ready", nil, 8, 1)

	got := Filter([]Record{big, small, other}, Parse("STATUS(deploy) RAM(>4)"))
	require.Len(t, got, 1)
	assert.Equal(t, "a.maas", got[0].FQDN())
}

func TestFilterPreservesOrderAndEmptyExpression(t *testing.T) {
	records := []Record{
		machine("c", "Ready", nil, 1, 1),
		machine("a", "Ready", nil, 1, 1),
		machine("b", "Ready", nil, 1, 1),
	}
	got := Filter(records, Parse(""))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].FQDN(), got[1].FQDN(), got[2].FQDN()})
	assert.Empty(t, Filter(nil, Parse("x")))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Deployed", "DEPLOY"))
	assert.False(t, ContainsFold("Ready", "deploy"))
	assert.True(t, ContainsFold("hôte-Ü.maas", "ü"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "éteint", Fold("ÉTEINT"))
	assert.Equal(t, "strasse", Fold("Straße"))
}

func TestPredicateFoldsUnicodeAcrossRecords(t *testing.T) {
	records := []Record{
		machine("hôte-Ü.maas", "Éteint", []string{"Straße"}, 4, 1),
		machine("plain.maas", "Ready", []string{"ml"}, 4, 1),
		machine("HÔTE-ü2.maas", "ÉTEINT", nil, 4, 1),
	}
	got := Filter(records, Parse("STATUS(éteint) hôte-ü"))
	require.Len(t, got, 2)
	assert.Equal(t, "hôte-Ü.maas", got[0].FQDN())
	assert.Equal(t, "HÔTE-ü2.maas", got[1].FQDN())

	p := Parse("TAGS(STRASSE)").Predicate()
	for range 3 {
		assert.True(t, p(records[0]))
		assert.False(t, p(records[1]))
	}
}
