package query

import (
	"strconv"
	"strings"
)

// Comparator is a numeric comparison operator.
type Comparator string

//revive:disable:exported
const (
	GreaterEqual Comparator = ">="
	LessEqual    Comparator = "<="
	NotEqual     Comparator = "!="
	Greater      Comparator = ">"
	Less         Comparator = "<"
	Equal        Comparator = "="
)

//revive:enable:exported

// comparators is ordered by descending symbol length so ">=" is tried before ">".
var comparators = []Comparator{GreaterEqual, LessEqual, NotEqual, Greater, Less, Equal}

// Comparators returns the comparator symbols in resolution order.
func Comparators() []Comparator {
	return append([]Comparator(nil), comparators...)
}

// Holds reports whether "left c right" is true.
func (c Comparator) Holds(left, right float64) bool {
	switch c {
	case GreaterEqual:
		return left >= right
	case LessEqual:
		return left <= right
	case NotEqual:
		return left != right
	case Greater:
		return left > right
	case Less:
		return left < right
	case Equal:
		return left == right
	default:
		return false
	}
}

// ResolveComparator parses a numeric operand token such as ">=4", "<2.5" or
// "8". A bare number compares for equality. ok is false when the operand is
// not a number; callers drop such tokens.
func ResolveComparator(token string) (Comparator, float64, bool) {
	token = strings.TrimSpace(token)
	for _, c := range comparators {
		rest, found := strings.CutPrefix(token, string(c))
		if !found {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return "", 0, false
		}
		return c, n, true
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return "", 0, false
	}
	return Equal, n, true
}
