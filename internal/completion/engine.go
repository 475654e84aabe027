//revive:disable:exported
package completion

import "github.com/oakwood-commons/machq/internal/query"

// Provider defines the interface for suggestion sources.
// Implementations decide which candidates apply to a cursor context.
type Provider interface {
	// FilterCompletions returns ordered candidates for the given context.
	FilterCompletions(context CompletionContext) []Completion
}

// Completion represents a single completion suggestion.
type Completion struct {
	Text    string         // The text to insert if selected
	Display string         // Display text
	Kind    CompletionKind // Type of completion
	Detail  string         // Additional detail (e.g., field kind, record count)
}

// CompletionKind indicates the type of completion.
type CompletionKind int

const (
	CompletionField    CompletionKind = iota // Field name, accepted as FIELD(
	CompletionValue                          // Observed field value
	CompletionOperator                       // Comparator symbol for numeric fields
)

func (k CompletionKind) String() string {
	switch k {
	case CompletionField:
		return "field"
	case CompletionValue:
		return "value"
	case CompletionOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// CompletionContext provides context for completion filtering.
type CompletionContext struct {
	// Cursor is the resolved cursor context of the current input.
	Cursor query.CursorContext
}

// CompletionEngine wraps a Provider.
type CompletionEngine struct {
	provider Provider
}

//revive:enable:exported

// NewEngine creates a new completion engine with the given provider.
func NewEngine(provider Provider) *CompletionEngine {
	return &CompletionEngine{
		provider: provider,
	}
}

// GetCompletions returns the candidates for the cursor context.
func (e *CompletionEngine) GetCompletions(context CompletionContext) []Completion {
	if e == nil || e.provider == nil {
		return nil
	}
	return e.provider.FilterCompletions(context)
}

// Complete resolves the cursor context of input and returns its candidates.
func (e *CompletionEngine) Complete(input string, cursor int) (query.CursorContext, []Completion) {
	ctx := query.ResolveCursor(input, cursor)
	return ctx, e.GetCompletions(CompletionContext{Cursor: ctx})
}

// ClampSelection keeps a selection index within [0, n-1], or 0 when n is 0.
func ClampSelection(selected, n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(selected, n-1))
}
