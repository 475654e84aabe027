package session

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/query"
)

// Filter selects the records matching expr.
type Filter func(records []query.Record, expr query.Expression) []query.Record

// Result is one evaluation of the input against the record set.
type Result struct {
	Expr       query.Expression
	Rows       []query.Record
	Generation int
}

// Recomputer decides per keystroke whether the filtered set has to be rebuilt.
// It re-evaluates when the count of closing parentheses grew or the free text
// changed since the last evaluation, and otherwise hands back the cached
// *Result unchanged. Edits inside a clause that is still open, or inside an
// already closed clause, therefore leave the rows stale until one of those
// triggers fires.
type Recomputer struct {
	records []query.Record
	filter  Filter
	log     logr.Logger

	last     *Result
	parens   int    // ')' count at the last evaluation
	freeText string // free text at the last evaluation
}

// NewRecomputer creates a controller over records. A nil filter selects the
// native evaluator.
func NewRecomputer(records []query.Record, filter Filter, log logr.Logger) *Recomputer {
	if filter == nil {
		filter = query.Filter
	}
	return &Recomputer{records: records, filter: filter, log: log}
}

// Update reports the result for input and whether it was recomputed.
func (r *Recomputer) Update(input string) (*Result, bool) {
	free := query.FreeTextOf(input)
	if r.last != nil && strings.Count(input, ")") <= r.parens && free == r.freeText {
		return r.last, false
	}
	return r.evaluate(input, free), true
}

// Force re-evaluates input unconditionally.
func (r *Recomputer) Force(input string) *Result {
	return r.evaluate(input, query.FreeTextOf(input))
}

// Last returns the cached result, or nil before the first evaluation.
func (r *Recomputer) Last() *Result {
	return r.last
}

// Records returns the full record set.
func (r *Recomputer) Records() []query.Record {
	return r.records
}

func (r *Recomputer) evaluate(input, free string) *Result {
	expr := query.Parse(input)
	gen := 1
	if r.last != nil {
		gen = r.last.Generation + 1
	}
	r.last = &Result{
		Expr:       expr,
		Rows:       r.filter(r.records, expr),
		Generation: gen,
	}
	r.freeText = free
	r.parens = strings.Count(input, ")")
	r.log.V(1).Info("recomputed", "generation", gen, "clauses", len(expr.Clauses), "terms", len(expr.Terms), "rows", len(r.last.Rows))
	return r.last
}
