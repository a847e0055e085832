package mutators

import (
	m "smite.dev/pkg/smite/internal/model"
)

// Comparison replaces a relational operator with adjacent ones: the boundary
// sibling, the mirrored operator, and the matching (in)equality.
type Comparison struct{}

// Name returns the catalog name.
func (Comparison) Name() string { return "comparison" }

// comparisonAlternatives is the fixed replacement table. Equality operators
// only flip, relational operators additionally probe boundaries.
var comparisonAlternatives = map[string][]string{
	"<":  {"<=", ">=", "!="},
	"<=": {"<", ">", "=="},
	">":  {">=", "<=", "!="},
	">=": {">", "<", "!="},
	"==": {"!="},
	"!=": {"=="},
}

// IsApplicable reports whether the context is a relational operator.
func (Comparison) IsApplicable(ctx m.MutationContext) bool {
	if ctx.Expr == nil || ctx.Expr.Kind != m.ExprBinary {
		return false
	}

	_, ok := comparisonAlternatives[ctx.Expr.Op]

	return ok
}

// Generate produces one mutant per table entry, in table order.
func (c Comparison) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	expr, err := exprNode(c.Name(), ctx, m.ExprBinary)
	if err != nil {
		return nil, err
	}

	var mutants []m.Mutant

	for _, op := range comparisonAlternatives[expr.Op] {
		mutants = append(mutants, ctx.NewMutant(ctx.Span, m.OperatorReplacement{
			Category: m.MutationComparison,
			From:     expr.Op,
			To:       op,
		}))
	}

	return mutants, nil
}
