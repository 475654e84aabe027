// Package intellisense exposes the machq suggestion engine to host
// applications that build their own query input.
//
// # Basic Usage
//
//	p := intellisense.NewProvider(records, intellisense.MatchPrefix)
//	for _, c := range p.Suggest("STATUS(dep") {
//		fmt.Printf("%s - %s\n", c.Display, c.Detail)
//	}
package intellisense

import (
	"github.com/oakwood-commons/machq/internal/completion"
	"github.com/oakwood-commons/machq/internal/query"
)

// Completion represents a single completion suggestion.
type Completion = completion.Completion

// CompletionKind indicates the type of completion.
type CompletionKind = completion.CompletionKind

// Completion kinds
const (
	CompletionField    = completion.CompletionField
	CompletionValue    = completion.CompletionValue
	CompletionOperator = completion.CompletionOperator
)

// MatchMode controls how typed prefixes match field names.
type MatchMode = completion.MatchMode

// Match modes
const (
	MatchPrefix   = completion.MatchPrefix
	MatchContains = completion.MatchContains
)

// CursorContext describes what the cursor is positioned on.
type CursorContext = query.CursorContext

// Provider suggests field names, comparators and observed values for a
// record set.
type Provider struct {
	engine *completion.CompletionEngine
}

// NewProvider indexes records and returns a provider for them.
func NewProvider(records []query.Record, match MatchMode) *Provider {
	index := completion.NewValueIndex(records)
	return &Provider{engine: completion.NewEngine(completion.NewFieldProvider(index, match))}
}

// Suggest returns the candidates for the cursor at the end of input.
func (p *Provider) Suggest(input string) []Completion {
	_, out := p.SuggestAt(input, len(input))
	return out
}

// SuggestAt returns the cursor context at byte offset cursor and its
// candidates.
func (p *Provider) SuggestAt(input string, cursor int) (CursorContext, []Completion) {
	return p.engine.Complete(input, cursor)
}

// Accept applies c to input the way the console does: the token under the
// cursor is replaced by the completion text. It returns the new input and
// cursor.
func Accept(input string, ctx CursorContext, c Completion) (string, int) {
	cursor := max(0, min(ctx.Cursor, len(input)))
	start := max(0, min(ctx.TokenStart, cursor))
	return input[:start] + c.Text + input[cursor:], start + len(c.Text)
}
