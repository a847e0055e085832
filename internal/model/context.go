package model

// Visibility of a Solidity function.
type Visibility string

// Solidity visibility levels.
const (
	VisibilityExternal Visibility = "external"
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
)

// FnKind distinguishes function-like declarations.
type FnKind string

// Function-like declaration kinds.
const (
	FnKindFunction    FnKind = "function"
	FnKindConstructor FnKind = "constructor"
	FnKindModifier    FnKind = "modifier"
	FnKindReceive     FnKind = "receive"
	FnKindFallback    FnKind = "fallback"
)

// ExprKind classifies the expression node a context describes.
type ExprKind int

// Expression node kinds produced by the walker.
const (
	// ExprCast is an explicit elementary-type conversion call, e.g. uint8(x).
	ExprCast ExprKind = iota
	// ExprBinary is a binary operator occurrence; the context span covers
	// the operator token only.
	ExprBinary
	// ExprIncDec is an increment/decrement expression, e.g. x++ or --x.
	ExprIncDec
	// ExprCondition is a guard condition inside if(...) or require(...).
	ExprCondition
)

// ExprInfo describes an expression node handed to expression mutators. Only
// the fields matching Kind are populated.
type ExprInfo struct {
	Kind ExprKind

	// ExprCast: callee type name and the single argument.
	Callee  string
	Arg     string
	ArgSpan Span

	// ExprBinary: operator text; the context span is the operator span.
	Op string

	// ExprIncDec: operand identifier, operator ("++" or "--"), fix-ity.
	Operand string
	Postfix bool
}

// FnInfo describes a function-level node.
type FnInfo struct {
	BodySpan    Span
	HasAssembly bool
	Visibility  Visibility
	Kind        FnKind
}

// MutationContext is the read-only view assembled per AST node and handed to
// every mutator. Exactly one of Expr or Fn is populated; contexts are
// ephemeral and never persisted.
type MutationContext struct {
	Span   Span
	Source string
	Path   Path
	Expr   *ExprInfo
	Fn     *FnInfo
}

// NewMutant builds a Mutant anchored at span, filling in the location fields
// from the context's source buffer.
func (c MutationContext) NewMutant(span Span, mutation Mutation) Mutant {
	line, column := Position(c.Source, span.Lo)

	original := ""
	if !span.IsInsertion() {
		original = c.Source[span.Lo:span.Hi]
	}

	return Mutant{
		Span:       span,
		Mutation:   mutation,
		Path:       c.Path,
		Original:   original,
		SourceLine: LineAt(c.Source, span.Lo),
		Line:       line,
		Column:     column,
	}
}
