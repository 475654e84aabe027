package session

import (
	"fmt"
	"strings"
)

// Mode is the editor mode.
type Mode int

const (
	// Editing accepts keystrokes into the raw input.
	Editing Mode = iota
	// Compiled shows a read-only rendering of the frozen input.
	Compiled
)

func (m Mode) String() string {
	if m == Compiled {
		return "compiled"
	}
	return "editing"
}

// Dialect selects the rendering used by the compiled view.
type Dialect string

const (
	// DialectSQL renders a flat SQL-like clause string.
	DialectSQL Dialect = "sql"
	// DialectCEL renders a CEL boolean expression over the record.
	DialectCEL Dialect = "cel"
)

// Dialects lists the supported dialects in cycle order.
func Dialects() []Dialect {
	return []Dialect{DialectSQL, DialectCEL}
}

// ParseDialect validates a dialect name. Empty selects DialectSQL.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case "", DialectSQL:
		return DialectSQL, nil
	case DialectCEL:
		return DialectCEL, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (want sql or cel)", s)
	}
}

// Next returns the dialect following d in cycle order.
func (d Dialect) Next() Dialect {
	all := Dialects()
	for i, x := range all {
		if x == d {
			return all[(i+1)%len(all)]
		}
	}
	return DialectSQL
}
