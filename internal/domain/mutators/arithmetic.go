package mutators

import (
	m "smite.dev/pkg/smite/internal/model"
)

// Arithmetic replaces an arithmetic operator with each of its siblings.
type Arithmetic struct{}

// Name returns the catalog name.
func (Arithmetic) Name() string { return "arithmetic" }

var arithmeticOps = []string{"+", "-", "*", "/", "%"}

func isArithmeticOp(op string) bool {
	for _, candidate := range arithmeticOps {
		if op == candidate {
			return true
		}
	}

	return false
}

// IsApplicable reports whether the context is a binary arithmetic operator.
func (Arithmetic) IsApplicable(ctx m.MutationContext) bool {
	return ctx.Expr != nil && ctx.Expr.Kind == m.ExprBinary && isArithmeticOp(ctx.Expr.Op)
}

// Generate produces one mutant per sibling operator, in catalog order.
func (a Arithmetic) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	expr, err := exprNode(a.Name(), ctx, m.ExprBinary)
	if err != nil {
		return nil, err
	}

	var mutants []m.Mutant

	for _, op := range arithmeticOps {
		if op == expr.Op {
			continue
		}

		mutants = append(mutants, ctx.NewMutant(ctx.Span, m.OperatorReplacement{
			Category: m.MutationArithmetic,
			From:     expr.Op,
			To:       op,
		}))
	}

	return mutants, nil
}
