package cel

import (
	"math"
	"strconv"
	"strings"

	"github.com/oakwood-commons/machq/internal/query"
)

// Render renders expr as a CEL boolean expression over the record bound to
// "_". Absent fields fail their clause through has(); numeric operands that do
// not resolve are dropped, and a clause left without operands renders false.
// Clauses are guarded with a conditional rather than && so every top-level
// conjunct is exactly one clause or free-text term.
//
//	STATUS(deploy) RAM(>4)
//
// renders as
//
//	(has(_.status) ? fold(_.status).contains("deploy") : false) && (has(_.ram) ? double(_.ram) > 4.0 : false)
func Render(expr query.Expression) string {
	parts := make([]string, 0, len(expr.Terms)+len(expr.Clauses))
	for _, t := range expr.Terms {
		parts = append(parts, containsCall(member(query.FreeText), t))
	}
	for _, c := range expr.Clauses {
		parts = append(parts, renderClause(c))
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " && ")
}

func renderClause(c query.Clause) string {
	field := member(c.Field)
	var terms []string
	switch c.Field.Kind() {
	case query.KindNumeric:
		for _, v := range c.Values {
			cmp, n, ok := query.ResolveComparator(v)
			if !ok {
				continue
			}
			terms = append(terms, "double("+field+") "+celOperator(cmp)+" "+doubleLiteral(n))
		}
	case query.KindList:
		elems := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			elems = append(elems, containsCall("e", v))
		}
		if len(elems) > 0 {
			terms = []string{field + ".exists(e, " + strings.Join(elems, " || ") + ")"}
		}
	default:
		for _, v := range c.Values {
			terms = append(terms, containsCall(field, v))
		}
	}
	if len(terms) == 0 {
		return "false"
	}
	return "(has(" + field + ") ? " + disjunction(terms) + " : false)"
}

func disjunction(terms []string) string {
	if len(terms) == 1 {
		return terms[0]
	}
	return "(" + strings.Join(terms, " || ") + ")"
}

func member(f query.Field) string {
	return RootVariable + "." + f.Key()
}

func containsCall(target, value string) string {
	return FoldFunction + "(" + target + ").contains(" + strconv.Quote(query.Fold(value)) + ")"
}

func celOperator(c query.Comparator) string {
	if c == query.Equal {
		return "=="
	}
	return string(c)
}

// doubleLiteral always yields a double so comparisons never mix int and double.
func doubleLiteral(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return "double(" + strconv.Quote(strconv.FormatFloat(n, 'g', -1, 64)) + ")"
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
