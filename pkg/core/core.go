// Package core is the embeddable, non-interactive face of machq: load a
// record set, run a query against it, compile a query to a dialect and
// render the result.
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/cel"
	"github.com/oakwood-commons/machq/internal/formatter"
	"github.com/oakwood-commons/machq/internal/query"
	"github.com/oakwood-commons/machq/internal/session"
	"github.com/oakwood-commons/machq/internal/source"
)

// Record is a single machine record.
type Record = query.Record

// Evaluator filters records by a parsed query.
type Evaluator interface {
	Filter(records []query.Record, expr query.Expression) ([]query.Record, error)
}

// Formatter renders records for output.
type Formatter interface {
	RenderTable(records []query.Record, opts formatter.TableOptions) string
	RenderJSON(records []query.Record) (string, error)
	RenderYAML(records []query.Record) (string, error)
}

// Engine names for WithEngine.
const (
	EngineNative = "native"
	EngineCEL    = "cel"
)

// Output formats accepted by Render.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
	OutputMarkdown = "markdown"
	OutputHTML     = "html"
)

// Engine provides a minimal shared API for querying and rendering records.
type Engine struct {
	Evaluator Evaluator
	Formatter Formatter

	engine string
	log    logr.Logger
	cel    *cel.Evaluator
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator. It takes precedence over WithEngine.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithFormatter sets a custom formatter.
func WithFormatter(f Formatter) Option {
	return func(c *Engine) {
		c.Formatter = f
	}
}

// WithEngine selects the built-in evaluator: "native" (default) or "cel".
func WithEngine(name string) Option {
	return func(c *Engine) {
		c.engine = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithLogger sets the logger handed to the CEL evaluator.
func WithLogger(l logr.Logger) Option {
	return func(c *Engine) {
		c.log = l
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		engine: EngineNative,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	eval, err := cel.NewEvaluator(cel.WithLogger(engine.log))
	if err != nil {
		return nil, fmt.Errorf("create CEL evaluator: %w", err)
	}
	engine.cel = eval
	if engine.Evaluator == nil {
		switch engine.engine {
		case "", EngineNative:
			engine.Evaluator = nativeEvaluator{}
		case EngineCEL:
			engine.Evaluator = eval
		default:
			return nil, fmt.Errorf("unknown engine %q (want native or cel)", engine.engine)
		}
	}
	if engine.Formatter == nil {
		engine.Formatter = defaultFormatter{}
	}
	return engine, nil
}

// CEL returns the CEL evaluator backing the cel engine and dialect.
func (e *Engine) CEL() *cel.Evaluator {
	return e.cel
}

// LoadRecords pulls the record set from the configured source.
func LoadRecords(ctx context.Context, cfg source.Config, log logr.Logger) ([]query.Record, error) {
	src, err := source.New(cfg, log)
	if err != nil {
		return nil, err
	}
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", cfg.Kind, err)
	}
	return records, nil
}

// RecordsFromMaps converts host-provided rows into records. Keys match field
// names case-insensitively and every row needs an fqdn.
func RecordsFromMaps(rows []map[string]any) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		r, err := query.RecordFromMap(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Query parses input and returns the matching records in source order.
func (e *Engine) Query(records []query.Record, input string) ([]query.Record, error) {
	if e == nil || e.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is not configured")
	}
	return e.Evaluator.Filter(records, query.Parse(input))
}

// Compile renders input in dialect ("sql" or "cel"). CEL output is
// type-checked before it is returned.
func (e *Engine) Compile(input, dialect string) (string, error) {
	d, err := session.ParseDialect(dialect)
	if err != nil {
		return "", err
	}
	expr := query.Parse(input)
	if d == session.DialectSQL {
		return query.Compile(expr), nil
	}
	prog, err := e.cel.Compile(expr)
	if err != nil {
		return "", err
	}
	return prog.Source(), nil
}

// Render formats records as table, json, yaml, markdown or html.
func (e *Engine) Render(records []query.Record, output string, opts formatter.TableOptions) (string, error) {
	f := e.Formatter
	if f == nil {
		f = defaultFormatter{}
	}
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", OutputTable:
		return f.RenderTable(records, opts), nil
	case OutputJSON:
		return f.RenderJSON(records)
	case OutputYAML:
		return f.RenderYAML(records)
	case OutputMarkdown:
		return formatter.FormatMarkdown(records), nil
	case OutputHTML:
		return formatter.FormatHTML(records), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, yaml, markdown or html)", output)
	}
}

type nativeEvaluator struct{}

func (nativeEvaluator) Filter(records []query.Record, expr query.Expression) ([]query.Record, error) {
	return query.Filter(records, expr), nil
}

type defaultFormatter struct{}

func (defaultFormatter) RenderTable(records []query.Record, opts formatter.TableOptions) string {
	return formatter.RenderRecords(records, opts)
}

func (defaultFormatter) RenderJSON(records []query.Record) (string, error) {
	return formatter.FormatJSON(records)
}

func (defaultFormatter) RenderYAML(records []query.Record) (string, error) {
	return formatter.FormatYAML(records, 2)
}
