package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CursorContext describes what the edit cursor is positioned on.
type CursorContext struct {
	// Inside is true when the cursor sits in an open, unclosed clause on a known field.
	Inside bool
	// Prefix is the field-name token ending at the cursor (Outside only).
	Prefix string
	// Field is the clause field (Inside only).
	Field Field
	// Values are the comma-separated segments typed so far, the last one in progress (Inside only).
	Values []string
	// Partial is the in-progress last segment with surrounding spaces removed (Inside only).
	Partial string
	// TokenStart is the byte offset where the replaceable token starts: the
	// prefix when Outside, the in-progress segment when Inside.
	TokenStart int
	// Cursor is the clamped cursor offset the context was resolved for.
	Cursor int
}

// Outside returns an outside-clause context for prefix ending at cursor.
func Outside(prefix string, cursor int) CursorContext {
	return CursorContext{Prefix: prefix, TokenStart: cursor - len(prefix), Cursor: cursor}
}

// ResolveCursor determines the cursor context at byte offset cursor of input.
func ResolveCursor(input string, cursor int) CursorContext {
	cursor = max(0, min(cursor, len(input)))
	before := input[:cursor]
	if strings.Count(before, "(") <= strings.Count(before, ")") {
		return Outside(trailingToken(before), cursor)
	}

	open := unmatchedOpen(before)
	if open < 0 {
		return Outside("", cursor)
	}
	f, ok := LookupField(before[identStart(before, open):open])
	if !ok {
		return Outside("", cursor)
	}

	body := before[open+1:]
	values := strings.Split(body, ",")
	last := values[len(values)-1]
	token := strings.TrimLeftFunc(last, unicode.IsSpace)
	return CursorContext{
		Inside:     true,
		Field:      f,
		Values:     values,
		Partial:    strings.TrimRightFunc(token, unicode.IsSpace),
		TokenStart: cursor - len(token),
		Cursor:     cursor,
	}
}

// unmatchedOpen returns the offset of the nearest '(' not closed before the end of s.
func unmatchedOpen(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func trailingToken(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i+size:]
}
