package query

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestCompileGolden(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"free_text", "sin73 maas"},
		{"numeric", "RAM(>4) CORES(8, <=2) STORAGE(abc)"},
		{"mixed", "sin73 STATUS(deploy,ready) RAM(>4)"},
		{"quoting", "TAGS(o'brien)"},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(Compile(Parse(tt.input))+"\n"))
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	assert.Equal(t, "", Compile(Parse("")))
	assert.Equal(t, "", Compile(Parse("STATUS(unterminated")))
}

func TestCompileJoinsWithAnd(t *testing.T) {
	assert.Equal(t,
		"STATUS LIKE '%deploy%' AND RAM > 4",
		Compile(Parse("STATUS(deploy) RAM(>4)")))
	assert.Equal(t, "ZONE LIKE '%zone-1%'", Compile(Parse("zone(zone-1)")))
	assert.Equal(t, "DISKS = 6", Compile(Parse("DISKS(6)")))
}
