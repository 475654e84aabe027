package completion

import (
	"sort"
	"strings"

	"github.com/oakwood-commons/machq/internal/query"
)

// ValueIndex is the single source of truth for observed field values.
// It is built once per record set; records are immutable, so the index never
// goes stale within a session.
type ValueIndex struct {
	values map[query.Field][]string       // field → sorted distinct values
	counts map[query.Field]map[string]int // field → value → records carrying it
}

// NewValueIndex indexes the distinct values of every list and string field.
// List fields contribute each element individually.
func NewValueIndex(records []query.Record) *ValueIndex {
	x := &ValueIndex{
		values: make(map[query.Field][]string),
		counts: make(map[query.Field]map[string]int),
	}
	for _, f := range query.Fields() {
		if f.Kind() == query.KindNumeric {
			continue
		}
		counts := make(map[string]int)
		for _, r := range records {
			v := r.Value(f)
			if !v.Present() {
				continue
			}
			switch f.Kind() {
			case query.KindList:
				seen := make(map[string]bool, len(v.List()))
				for _, e := range v.List() {
					if !seen[e] {
						seen[e] = true
						counts[e]++
					}
				}
			default:
				counts[v.Text()]++
			}
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		x.values[f] = names
		x.counts[f] = counts
	}
	return x
}

// Values returns the sorted distinct values of f.
func (x *ValueIndex) Values(f query.Field) []string {
	return x.values[f]
}

// Search returns the values of f containing partial, case-insensitively,
// in ascending order.
func (x *ValueIndex) Search(f query.Field, partial string) []string {
	all := x.values[f]
	if strings.TrimSpace(partial) == "" {
		return append([]string(nil), all...)
	}
	var result []string
	for _, v := range all {
		if query.ContainsFold(v, partial) {
			result = append(result, v)
		}
	}
	return result
}

// Count returns the number of records carrying value v on f.
func (x *ValueIndex) Count(f query.Field, v string) int {
	return x.counts[f][v]
}

// Size returns the total number of distinct indexed values.
func (x *ValueIndex) Size() int {
	n := 0
	for _, vs := range x.values {
		n += len(vs)
	}
	return n
}
