package query

import (
	"strconv"
	"strings"
)

// FreeTextColumn is the column name free-text terms compile against.
const FreeTextColumn = "FQDN"

// Compile renders expr as a flat conjunctive clause string for the compiled
// view. The output is display-only and is never parsed back.
//
//	sin73 STATUS(deploy,ready) RAM(>4)
//
// compiles to
//
//	FQDN LIKE '%sin73%' AND (STATUS LIKE '%deploy%' OR STATUS LIKE '%ready%') AND RAM > 4
func Compile(expr Expression) string {
	parts := make([]string, 0, len(expr.Terms)+len(expr.Clauses))
	for _, t := range expr.Terms {
		parts = append(parts, like(FreeTextColumn, t))
	}
	for _, c := range expr.Clauses {
		parts = append(parts, compileClause(c))
	}
	return strings.Join(parts, " AND ")
}

func compileClause(c Clause) string {
	name := c.Field.String()
	var terms []string
	switch c.Field.Kind() {
	case KindNumeric:
		for _, op := range resolveOperands(c.Values) {
			terms = append(terms, name+" "+string(op.cmp)+" "+FormatNumber(op.num))
		}
	default:
		for _, v := range c.Values {
			terms = append(terms, like(name, v))
		}
	}
	switch len(terms) {
	case 0:
		return "FALSE"
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

func like(column, value string) string {
	return column + " LIKE '%" + strings.ReplaceAll(value, "'", "''") + "%'"
}

// FormatNumber renders n without trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
