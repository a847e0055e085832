package mutators

import (
	m "smite.dev/pkg/smite/internal/model"
)

// Increment rewrites increment/decrement expressions: it swaps fix-ity
// (x++ <-> ++x), which only diverges when the expression value is read, and
// flips direction (x++ <-> x--).
type Increment struct{}

// Name returns the catalog name.
func (Increment) Name() string { return "increment" }

// IsApplicable reports whether the context is an increment or decrement.
func (Increment) IsApplicable(ctx m.MutationContext) bool {
	if ctx.Expr == nil || ctx.Expr.Kind != m.ExprIncDec {
		return false
	}

	return ctx.Expr.Op == "++" || ctx.Expr.Op == "--"
}

// Generate produces the fix-ity swap followed by the direction flip.
func (i Increment) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	expr, err := exprNode(i.Name(), ctx, m.ExprIncDec)
	if err != nil {
		return nil, err
	}

	original := ctx.Source[ctx.Span.Lo:ctx.Span.Hi]

	flipped := "--"
	if expr.Op == "--" {
		flipped = "++"
	}

	var swapped, flippedText string
	if expr.Postfix {
		swapped = expr.Op + expr.Operand
		flippedText = expr.Operand + flipped
	} else {
		swapped = expr.Operand + expr.Op
		flippedText = flipped + expr.Operand
	}

	mutants := []m.Mutant{
		ctx.NewMutant(ctx.Span, m.IncrementSwap{From: original, To: swapped}),
		ctx.NewMutant(ctx.Span, m.IncrementSwap{From: original, To: flippedText}),
	}

	return mutants, nil
}
