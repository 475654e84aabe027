package cel

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/oakwood-commons/machq/internal/query"
)

// FoldFunction is the CEL function that Unicode case-folds a string, the same
// folding the native evaluator applies.
const FoldFunction = "fold"

func foldLibrary() cel.EnvOption {
	return cel.Function(FoldFunction,
		cel.Overload("fold_string", []*cel.Type{cel.StringType}, cel.StringType,
			cel.UnaryBinding(func(v ref.Val) ref.Val {
				s, ok := v.(types.String)
				if !ok {
					return types.MaybeNoSuchOverloadErr(v)
				}
				return types.String(query.Fold(string(s)))
			}),
		),
	)
}
