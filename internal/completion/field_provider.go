package completion

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/machq/internal/query"
)

// MatchMode controls how a typed prefix selects field names.
type MatchMode string

const (
	// MatchPrefix keeps field names starting with the typed token.
	MatchPrefix MatchMode = "prefix"
	// MatchContains keeps field names containing the typed token.
	MatchContains MatchMode = "contains"
)

// ParseMatchMode validates a configured match mode. Empty selects MatchPrefix.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchPrefix:
		return MatchPrefix, nil
	case MatchContains:
		return MatchContains, nil
	default:
		return "", fmt.Errorf("invalid field match mode %q (want prefix or contains)", s)
	}
}

// FieldProvider suggests field names outside clauses, comparators inside
// numeric clauses and observed values inside list and string clauses.
type FieldProvider struct {
	index *ValueIndex
	match MatchMode
}

// NewFieldProvider creates a provider over the given value index.
func NewFieldProvider(index *ValueIndex, match MatchMode) *FieldProvider {
	if match == "" {
		match = MatchPrefix
	}
	return &FieldProvider{index: index, match: match}
}

// FilterCompletions implements Provider.
func (p *FieldProvider) FilterCompletions(context CompletionContext) []Completion {
	ctx := context.Cursor
	if !ctx.Inside {
		return p.fieldNames(ctx.Prefix)
	}
	switch ctx.Field.Kind() {
	case query.KindNumeric:
		return operators(ctx.Partial)
	default:
		return p.values(ctx.Field, ctx.Partial)
	}
}

func (p *FieldProvider) fieldNames(prefix string) []Completion {
	upper := strings.ToUpper(prefix)
	out := make([]Completion, 0, len(query.Fields()))
	for _, f := range query.Fields() {
		name := f.String()
		switch p.match {
		case MatchContains:
			if !strings.Contains(name, upper) {
				continue
			}
		default:
			if !strings.HasPrefix(name, upper) {
				continue
			}
		}
		out = append(out, Completion{
			Text:    name + "(",
			Display: name,
			Kind:    CompletionField,
			Detail:  f.Kind().String(),
		})
	}
	return out
}

func operators(partial string) []Completion {
	partial = strings.TrimSpace(partial)
	var out []Completion
	for _, c := range query.Comparators() {
		if !strings.HasPrefix(string(c), partial) {
			continue
		}
		out = append(out, Completion{
			Text:    string(c),
			Display: string(c),
			Kind:    CompletionOperator,
			Detail:  "comparator",
		})
	}
	return out
}

func (p *FieldProvider) values(f query.Field, partial string) []Completion {
	if p.index == nil {
		return nil
	}
	matches := p.index.Search(f, partial)
	out := make([]Completion, 0, len(matches))
	for _, v := range matches {
		n := p.index.Count(f, v)
		detail := fmt.Sprintf("%d records", n)
		if n == 1 {
			detail = "1 record"
		}
		out = append(out, Completion{
			Text:    v,
			Display: v,
			Kind:    CompletionValue,
			Detail:  detail,
		})
	}
	return out
}
