// Package session owns the mutable state of one interactive query session:
// the raw input and cursor, the Editing/Compiled mode machine, suggestion
// selection and the recompute cache. It consumes discrete key events and
// produces a DisplaySnapshot for the rendering layer. All methods run on the
// caller's goroutine.
package session

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/cel"
	"github.com/oakwood-commons/machq/internal/completion"
	"github.com/oakwood-commons/machq/internal/query"
)

// DefaultPrompt is shown before the input when no prompt is configured.
const DefaultPrompt = "query> "

// DisplaySnapshot is everything the rendering layer needs for one frame.
type DisplaySnapshot struct {
	Prompt      string
	Mode        Mode
	Text        string // raw input when Editing, compiled text when Compiled
	Input       string // raw input, frozen while Compiled
	Cursor      int    // byte offset into Input
	Suggestions []completion.Completion
	Selected    int
	Rows        []query.Record
	Total       int
	Dialect     Dialect
	Status      string
	ReadOnly    bool
}

// Session is the state threaded through the event loop.
type Session struct {
	log       logr.Logger
	prompt    string
	match     completion.MatchMode
	dialect   Dialect
	evaluator *cel.Evaluator
	filter    Filter

	engine    *completion.CompletionEngine
	recompute *Recomputer

	input  string
	cursor int
	mode   Mode

	frozenInput  string
	frozenCursor int
	compiled     string
	compileNote  string

	context     query.CursorContext
	suggestions []completion.Completion
	selected    int
	result      *Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logr.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithPrompt sets the prompt text.
func WithPrompt(p string) Option {
	return func(s *Session) { s.prompt = p }
}

// WithMatchMode sets how field names are matched against the typed prefix.
func WithMatchMode(m completion.MatchMode) Option {
	return func(s *Session) { s.match = m }
}

// WithDialect sets the initial compiled-view dialect.
func WithDialect(d Dialect) Option {
	return func(s *Session) { s.dialect = d }
}

// WithEvaluator sets the CEL evaluator used by the CEL dialect.
func WithEvaluator(e *cel.Evaluator) Option {
	return func(s *Session) { s.evaluator = e }
}

// WithFilter replaces the native record filter.
func WithFilter(f Filter) Option {
	return func(s *Session) { s.filter = f }
}

// WithInput seeds the raw input with the cursor at its end.
func WithInput(input string) Option {
	return func(s *Session) {
		s.input = input
		s.cursor = len(input)
	}
}

// New creates a session over records and evaluates the initial input.
func New(records []query.Record, opts ...Option) *Session {
	s := &Session{
		log:     logr.Discard(),
		prompt:  DefaultPrompt,
		match:   completion.MatchPrefix,
		dialect: DialectSQL,
	}
	for _, opt := range opts {
		opt(s)
	}
	index := completion.NewValueIndex(records)
	s.engine = completion.NewEngine(completion.NewFieldProvider(index, s.match))
	s.recompute = NewRecomputer(records, s.filter, s.log)
	s.result = s.recompute.Force(s.input)
	s.suggest()
	s.log.V(1).Info("session started", "records", len(records), "indexedValues", index.Size())
	return s
}

// CELFilter evaluates expressions through CEL programs. It falls back to the
// native evaluator when the rendered program fails to compile or evaluate.
func CELFilter(e *cel.Evaluator, log logr.Logger) Filter {
	return func(records []query.Record, expr query.Expression) []query.Record {
		rows, err := e.Filter(records, expr)
		if err != nil {
			log.Error(err, "CEL evaluation failed, using native evaluator")
			return query.Filter(records, expr)
		}
		return rows
	}
}

// Handle applies ev and reports whether the session should end.
func (s *Session) Handle(ev Event) bool {
	s.log.V(1).Info("event", "kind", ev.Kind.String(), "mode", s.mode.String())
	switch ev.Kind {
	case EventQuit:
		return true
	case EventToggleMode:
		s.toggle()
		return false
	case EventCycleDialect:
		s.dialect = s.dialect.Next()
		if s.mode == Compiled {
			s.compile()
		}
		return false
	}
	if s.mode == Compiled {
		return false
	}

	switch ev.Kind {
	case EventInsert:
		s.insert(ev.Text)
	case EventLeft:
		if s.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(s.input[:s.cursor])
			s.cursor -= size
		}
		s.suggest()
		return false
	case EventRight:
		if s.cursor < len(s.input) {
			_, size := utf8.DecodeRuneInString(s.input[s.cursor:])
			s.cursor += size
		}
		s.suggest()
		return false
	case EventHome:
		s.cursor = 0
		s.suggest()
		return false
	case EventEnd:
		s.cursor = len(s.input)
		s.suggest()
		return false
	case EventBackspace:
		if s.cursor == 0 {
			return false
		}
		_, size := utf8.DecodeLastRuneInString(s.input[:s.cursor])
		s.input = s.input[:s.cursor-size] + s.input[s.cursor:]
		s.cursor -= size
	case EventDelete:
		if s.cursor >= len(s.input) {
			return false
		}
		_, size := utf8.DecodeRuneInString(s.input[s.cursor:])
		s.input = s.input[:s.cursor] + s.input[s.cursor+size:]
	case EventUp:
		s.selected = completion.ClampSelection(s.selected-1, len(s.suggestions))
		return false
	case EventDown:
		s.selected = completion.ClampSelection(s.selected+1, len(s.suggestions))
		return false
	case EventAccept:
		if !s.accept() {
			return false
		}
	case EventClear:
		s.input, s.cursor = "", 0
		s.selected = 0
		s.result = s.recompute.Force(s.input)
		s.suggest()
		return false
	default:
		return false
	}
	s.selected = 0
	s.refresh()
	return false
}

// Snapshot builds the display model for the current state.
func (s *Session) Snapshot() DisplaySnapshot {
	snap := DisplaySnapshot{
		Prompt:   s.prompt,
		Mode:     s.mode,
		Input:    s.input,
		Cursor:   s.cursor,
		Selected: s.selected,
		Total:    len(s.recompute.Records()),
		Dialect:  s.dialect,
	}
	if s.result != nil {
		snap.Rows = s.result.Rows
	}
	if s.mode == Compiled {
		snap.Text = s.compiled
		snap.ReadOnly = true
		snap.Selected = 0
		snap.Status = s.compileNote
		return snap
	}
	snap.Text = s.input
	snap.Suggestions = s.suggestions
	snap.Status = fmt.Sprintf("%d/%d records", len(snap.Rows), snap.Total)
	return snap
}

// Input returns the raw input and cursor offset.
func (s *Session) Input() (string, int) {
	return s.input, s.cursor
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Dialect returns the active compiled-view dialect.
func (s *Session) Dialect() Dialect {
	return s.dialect
}

// Context returns the cursor context resolved for the current input.
func (s *Session) Context() query.CursorContext {
	return s.context
}

// Result returns the current (possibly cached) evaluation.
func (s *Session) Result() *Result {
	return s.result
}

// Compiled returns the compiled text, empty unless in Compiled mode.
func (s *Session) Compiled() string {
	return s.compiled
}

func (s *Session) insert(text string) {
	s.input = s.input[:s.cursor] + text + s.input[s.cursor:]
	s.cursor += len(text)
}

// accept replaces the token the cursor context identified with the selected
// suggestion. Field suggestions carry the opening parenthesis.
func (s *Session) accept() bool {
	if len(s.suggestions) == 0 {
		return false
	}
	c := s.suggestions[completion.ClampSelection(s.selected, len(s.suggestions))]
	start := max(0, min(s.context.TokenStart, s.cursor))
	s.input = s.input[:start] + c.Text + s.input[s.cursor:]
	s.cursor = start + len(c.Text)
	return true
}

func (s *Session) refresh() {
	s.result, _ = s.recompute.Update(s.input)
	s.suggest()
}

func (s *Session) suggest() {
	s.context, s.suggestions = s.engine.Complete(s.input, s.cursor)
	s.selected = completion.ClampSelection(s.selected, len(s.suggestions))
}

func (s *Session) toggle() {
	if s.mode == Compiled {
		s.input, s.cursor = s.frozenInput, s.frozenCursor
		s.compiled, s.compileNote = "", ""
		s.mode = Editing
		s.suggest()
		return
	}
	s.frozenInput, s.frozenCursor = s.input, s.cursor
	s.mode = Compiled
	s.compile()
}

func (s *Session) compile() {
	expr := query.Parse(s.frozenInput)
	switch s.dialect {
	case DialectCEL:
		s.compileCEL(expr)
	default:
		s.compiled = query.Compile(expr)
		s.compileNote = fmt.Sprintf("sql: %d clauses", len(expr.Clauses)+len(expr.Terms))
	}
	s.log.V(1).Info("compiled", "dialect", string(s.dialect), "text", s.compiled)
}

func (s *Session) compileCEL(expr query.Expression) {
	src := cel.Render(expr)
	s.compiled = src
	if s.evaluator == nil {
		s.compileNote = "cel"
		return
	}
	if _, err := s.evaluator.CompileSource(src); err != nil {
		s.compileNote = "cel: " + err.Error()
		return
	}
	sum, err := s.evaluator.Describe(src)
	if err != nil {
		s.compileNote = "cel: " + err.Error()
		return
	}
	s.compileNote = fmt.Sprintf("cel: %d conjuncts", sum.Conjuncts)
	if sum.HasMacros {
		s.compileNote += ", list macros"
	}
}
