package mutators

import (
	m "smite.dev/pkg/smite/internal/model"
)

// Guard weakens a guard condition by replacing the whole boolean expression
// with a literal, probing access-control and validation coverage.
type Guard struct{}

// Name returns the catalog name.
func (Guard) Name() string { return "guard" }

// IsApplicable reports whether the context is a non-literal guard condition.
func (Guard) IsApplicable(ctx m.MutationContext) bool {
	if ctx.Expr == nil || ctx.Expr.Kind != m.ExprCondition {
		return false
	}

	cond := ctx.Source[ctx.Span.Lo:ctx.Span.Hi]

	return cond != "true" && cond != "false"
}

// Generate produces the always-true and always-false overrides.
func (g Guard) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	if _, err := exprNode(g.Name(), ctx, m.ExprCondition); err != nil {
		return nil, err
	}

	mutants := []m.Mutant{
		ctx.NewMutant(ctx.Span, m.ConditionOverride{Literal: "true"}),
		ctx.NewMutant(ctx.Span, m.ConditionOverride{Literal: "false"}),
	}

	return mutants, nil
}
