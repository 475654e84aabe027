package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "zero", cfg: Config{}},
		{name: "limit and offset", cfg: Config{Limit: 5, Offset: 2}},
		{name: "tail and offset", cfg: Config{Tail: 3, Offset: 9}},
		{name: "negative limit", cfg: Config{Limit: -1}, wantErr: "--limit"},
		{name: "negative offset", cfg: Config{Offset: -1}, wantErr: "--offset"},
		{name: "negative tail", cfg: Config{Tail: -2}, wantErr: "--tail"},
		{name: "limit with tail", cfg: Config{Limit: 1, Tail: 1}, wantErr: "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApply(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "inactive", cfg: Config{}, want: items},
		{name: "limit", cfg: Config{Limit: 2}, want: []string{"a", "b"}},
		{name: "offset", cfg: Config{Offset: 3}, want: []string{"d", "e"}},
		{name: "offset and limit", cfg: Config{Offset: 1, Limit: 2}, want: []string{"b", "c"}},
		{name: "limit past end", cfg: Config{Offset: 4, Limit: 10}, want: []string{"e"}},
		{name: "offset past end", cfg: Config{Offset: 9}, want: []string{}},
		{name: "tail", cfg: Config{Tail: 2}, want: []string{"d", "e"}},
		{name: "tail ignores offset", cfg: Config{Tail: 2, Offset: 1}, want: []string{"d", "e"}},
		{name: "tail longer than input", cfg: Config{Tail: 9}, want: items},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, items))
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(Config{Limit: 3}, []int(nil)))
	assert.Empty(t, Apply(Config{Tail: 3}, []int{}))
}
