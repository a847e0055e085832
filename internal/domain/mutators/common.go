// Package mutators provides the catalog of mutant generators. Every entry
// implements the same capability interface: a cheap IsApplicable pre-filter
// and a deterministic Generate over a MutationContext.
package mutators

import (
	"fmt"

	m "smite.dev/pkg/smite/internal/model"
)

// exprNode returns the expression node of a context, or an error when the
// mutator was invoked on a function-level context. That is a contract
// violation between the walker and the mutator, not a data error.
func exprNode(name string, ctx m.MutationContext, kind m.ExprKind) (*m.ExprInfo, error) {
	if ctx.Expr == nil {
		return nil, fmt.Errorf("mutator %s: context for %s has no expression node", name, ctx.Path)
	}

	if ctx.Expr.Kind != kind {
		return nil, fmt.Errorf("mutator %s: unexpected expression kind %d in %s", name, ctx.Expr.Kind, ctx.Path)
	}

	return ctx.Expr, nil
}

// fnNode returns the function node of a context, or an error when the
// mutator was invoked on an expression-level context.
func fnNode(name string, ctx m.MutationContext) (*m.FnInfo, error) {
	if ctx.Fn == nil {
		return nil, fmt.Errorf("mutator %s: context for %s has no function node", name, ctx.Path)
	}

	return ctx.Fn, nil
}

// entryEligible reports whether a function body may receive entry-point
// injections. Only plain functions reachable solely through an external call
// boundary qualify: the runtime then guarantees fresh zeroed memory. Public,
// internal and private functions can be invoked via JUMP with the caller's
// live memory, so poisoning them would produce false positives.
func entryEligible(fn *m.FnInfo) bool {
	return fn.Kind == m.FnKindFunction &&
		fn.Visibility == m.VisibilityExternal &&
		fn.HasAssembly
}

// entrySpan is the zero-width insertion point at the first byte of a body.
func entrySpan(fn *m.FnInfo) m.Span {
	return m.Span{Lo: fn.BodySpan.Lo, Hi: fn.BodySpan.Lo}
}
