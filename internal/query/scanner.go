package query

import "strings"

// SpanKind classifies a region of raw input.
type SpanKind int

const (
	// SpanFree is input not claimed by any clause.
	SpanFree SpanKind = iota
	// SpanClause is a terminated FIELD(values) clause.
	SpanClause
	// SpanPending is a known FIELD( whose closing parenthesis has not been typed.
	// It always runs to the end of the input.
	SpanPending
)

// Span is a typed byte range [Start, End) of raw input.
type Span struct {
	Kind   SpanKind
	Start  int
	End    int
	Field  Field    // SpanClause and SpanPending only
	Values []string // trimmed, non-empty value tokens
}

// Clause is a parsed FIELD(values) filter. Values are kept as typed.
type Clause struct {
	Field  Field
	Values []string
}

// Expression is the parsed form of one raw input string.
type Expression struct {
	Clauses []Clause // input order; at most one per field
	Terms   []string // free-text terms
}

// Scan splits input into free, clause and pending spans covering it completely.
func Scan(input string) []Span {
	var spans []Span
	freeStart := 0
	i := 0
	for i < len(input) {
		if input[i] != '(' {
			i++
			continue
		}
		nameStart := identStart(input, i)
		f, known := LookupField(input[nameStart:i])
		if nameStart == i || !known {
			i++
			continue
		}
		if nameStart > freeStart {
			spans = append(spans, Span{Kind: SpanFree, Start: freeStart, End: nameStart})
		}
		closeAt := strings.IndexByte(input[i+1:], ')')
		if closeAt < 0 {
			spans = append(spans, Span{
				Kind:   SpanPending,
				Start:  nameStart,
				End:    len(input),
				Field:  f,
				Values: splitValues(input[i+1:]),
			})
			return spans
		}
		end := i + 1 + closeAt + 1
		spans = append(spans, Span{
			Kind:   SpanClause,
			Start:  nameStart,
			End:    end,
			Field:  f,
			Values: splitValues(input[i+1 : end-1]),
		})
		freeStart = end
		i = end
	}
	if freeStart < len(input) {
		spans = append(spans, Span{Kind: SpanFree, Start: freeStart, End: len(input)})
	}
	return spans
}

// Parse builds the expression for input from scratch. A later clause on the
// same field replaces an earlier one.
func Parse(input string) Expression {
	var expr Expression
	var free []string
	for _, s := range Scan(input) {
		switch s.Kind {
		case SpanFree:
			free = append(free, input[s.Start:s.End])
		case SpanClause:
			expr.set(Clause{Field: s.Field, Values: s.Values})
		}
	}
	expr.Terms = strings.Fields(strings.Join(free, " "))
	return expr
}

// FreeTextOf returns the input with every terminated and pending clause removed,
// whitespace-normalized. It is the free-text portion the recompute controller
// watches.
func FreeTextOf(input string) string {
	var free []string
	for _, s := range Scan(input) {
		if s.Kind == SpanFree {
			free = append(free, input[s.Start:s.End])
		}
	}
	return strings.Join(strings.Fields(strings.Join(free, " ")), " ")
}

// Clause returns the clause on f, if any.
func (e Expression) Clause(f Field) (Clause, bool) {
	for _, c := range e.Clauses {
		if c.Field == f {
			return c, true
		}
	}
	return Clause{}, false
}

// FreeText returns the free-text terms joined by a single space.
func (e Expression) FreeText() string {
	return strings.Join(e.Terms, " ")
}

// IsEmpty reports whether the expression filters nothing.
func (e Expression) IsEmpty() bool {
	return len(e.Clauses) == 0 && len(e.Terms) == 0
}

func (e *Expression) set(c Clause) {
	for i, existing := range e.Clauses {
		if existing.Field == c.Field {
			e.Clauses = append(e.Clauses[:i], e.Clauses[i+1:]...)
			break
		}
	}
	e.Clauses = append(e.Clauses, c)
}

func splitValues(body string) []string {
	parts := strings.Split(body, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// identStart returns the start of the identifier ending right before end.
func identStart(input string, end int) int {
	start := end
	for start > 0 && isIdentByte(input[start-1]) {
		start--
	}
	return start
}

func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}
