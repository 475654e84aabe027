package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

const andOperator = "_&&_"

// Summary describes the shape of a compiled CEL filter.
type Summary struct {
	// Conjuncts is the number of top-level terms joined by &&. A constant true
	// filter has zero conjuncts.
	Conjuncts int
	// HasMacros is true when any list macro (exists) is used.
	HasMacros bool
}

// Describe parses src and summarizes its syntax tree.
func (e *Evaluator) Describe(src string) (Summary, error) {
	ast, issues := e.env.Parse(src)
	if issues != nil && issues.Err() != nil {
		return Summary{}, fmt.Errorf("parse error: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return Summary{}, fmt.Errorf("convert ast: %w", err)
	}
	root := parsed.GetExpr()
	var s Summary
	if c := root.GetConstExpr(); c != nil && c.GetBoolValue() {
		return s, nil
	}
	s.Conjuncts = countConjuncts(root)
	s.HasMacros = hasComprehension(root)
	return s, nil
}

func countConjuncts(expr *exprpb.Expr) int {
	call := expr.GetCallExpr()
	if call == nil || call.GetFunction() != andOperator {
		return 1
	}
	n := 0
	for _, arg := range call.GetArgs() {
		n += countConjuncts(arg)
	}
	return n
}

func hasComprehension(expr *exprpb.Expr) bool {
	if expr == nil {
		return false
	}
	if expr.GetComprehensionExpr() != nil {
		return true
	}
	if call := expr.GetCallExpr(); call != nil {
		if hasComprehension(call.GetTarget()) {
			return true
		}
		for _, arg := range call.GetArgs() {
			if hasComprehension(arg) {
				return true
			}
		}
	}
	return false
}
