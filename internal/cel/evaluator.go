// Package cel renders parsed machq expressions in the CEL dialect and
// evaluates them with cel-go. The CEL form is an alternative projection of
// the same expression the native evaluator runs; both must select the same
// records.
package cel

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/machq/internal/query"
)

// RootVariable is the name records are bound to in CEL programs.
const RootVariable = "_"

// Evaluator compiles and evaluates CEL expressions over records.
type Evaluator struct {
	env *cel.Env
	log logr.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// NewEvaluator creates an evaluator with the string extension library and
// fold() loaded.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	e := &Evaluator{env: env, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GetEnvironment returns the CEL environment for introspection
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 3+len(opts))
	allOpts = append(allOpts,
		cel.Variable(RootVariable, cel.DynType),
		celext.Strings(),
		foldLibrary(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Program is a compiled CEL filter.
type Program struct {
	source string
	prg    cel.Program
}

// Source returns the CEL text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Compile renders expr in the CEL dialect and type-checks it.
func (e *Evaluator) Compile(expr query.Expression) (*Program, error) {
	return e.CompileSource(Render(expr))
}

// CompileSource type-checks and plans a CEL boolean expression.
func (e *Evaluator) CompileSource(src string) (*Program, error) {
	ast, issues := e.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must be a bool, got %s", out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	e.log.V(1).Info("compiled CEL program", "source", src)
	return &Program{source: src, prg: prg}, nil
}

// Match evaluates the program against one record.
func (p *Program) Match(r query.Record) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{RootVariable: r.Map()})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("expression returned %s, want bool", out.Type().TypeName())
	}
	return bool(b), nil
}

// Filter returns the records the program selects, in source order.
func (p *Program) Filter(records []query.Record) ([]query.Record, error) {
	out := make([]query.Record, 0, len(records))
	for _, r := range records {
		ok, err := p.Match(r)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.FQDN(), err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Filter compiles expr and applies it to records.
func (e *Evaluator) Filter(records []query.Record, expr query.Expression) ([]query.Record, error) {
	p, err := e.Compile(expr)
	if err != nil {
		return nil, err
	}
	return p.Filter(records)
}
