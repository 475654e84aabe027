package query

import (
	"strings"

	"golang.org/x/text/cases"
)

// Predicate tests a single record.
type Predicate func(Record) bool

type operand struct {
	cmp Comparator
	num float64
}

// Predicate turns an expression into a predicate. Value tokens are folded and
// numeric operands resolved once, here, instead of per record. The returned
// predicate owns a case folder and must not be called concurrently.
func (e Expression) Predicate() Predicate {
	f := newFolder()
	tests := make([]Predicate, 0, len(e.Clauses)+1)
	if len(e.Terms) > 0 {
		tests = append(tests, freeTextPredicate(f, f.all(e.Terms)))
	}
	for _, c := range e.Clauses {
		tests = append(tests, clausePredicate(f, c))
	}
	return func(r Record) bool {
		for _, t := range tests {
			if !t(r) {
				return false
			}
		}
		return true
	}
}

// Match reports whether r satisfies every clause of e.
func (e Expression) Match(r Record) bool {
	return e.Predicate()(r)
}

// Filter returns the records satisfying expr, in source order.
func Filter(records []Record, expr Expression) []Record {
	p := expr.Predicate()
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

func clausePredicate(fo *folder, c Clause) Predicate {
	f := c.Field
	switch f.Kind() {
	case KindNumeric:
		ops := resolveOperands(c.Values)
		return func(r Record) bool {
			n, ok := r.Value(f).Number()
			if !ok {
				return false
			}
			for _, op := range ops {
				if op.cmp.Holds(n, op.num) {
					return true
				}
			}
			return false
		}
	case KindList:
		tokens := fo.all(c.Values)
		return func(r Record) bool {
			v := r.Value(f)
			if !v.Present() {
				return false
			}
			for _, elem := range v.List() {
				if containsAny(fo.fold(elem), tokens) {
					return true
				}
			}
			return false
		}
	default:
		tokens := fo.all(c.Values)
		return func(r Record) bool {
			v := r.Value(f)
			return v.Present() && containsAny(fo.fold(v.Text()), tokens)
		}
	}
}

func freeTextPredicate(fo *folder, terms []string) Predicate {
	return func(r Record) bool {
		text := fo.fold(r.FQDN())
		for _, t := range terms {
			if !strings.Contains(text, t) {
				return false
			}
		}
		return true
	}
}

// resolveOperands drops tokens the comparator resolver rejects.
func resolveOperands(values []string) []operand {
	ops := make([]operand, 0, len(values))
	for _, v := range values {
		if c, n, ok := ResolveComparator(v); ok {
			ops = append(ops, operand{cmp: c, num: n})
		}
	}
	return ops
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// folder reuses one Unicode case folder. A cases.Caser keeps state between
// calls, so a folder belongs to a single predicate.
type folder struct {
	c cases.Caser
}

func newFolder() *folder {
	return &folder{c: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.c.String(s)
}

func (f *folder) all(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = f.fold(v)
	}
	return out
}

// Fold case-folds s for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	f := newFolder()
	return strings.Contains(f.fold(s), f.fold(substr))
}
